package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourorg/hireloop/internal/domain"
)

// jobRepository implements domain.JobRepository using PostgreSQL.
type jobRepository struct {
	q querier
}

// Create creates a new job posting.
func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	query := `
		INSERT INTO jobs (id, tenant_id, title, description, location, is_remote, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	if err := r.q.QueryRowContext(ctx, query,
		job.ID, job.TenantID, job.Title, job.Description, job.Location, job.IsRemote, job.CreatedByID,
	).Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetByID retrieves a job by ID without a tenant filter; the apply flow
// resolves the owning tenant from the returned row.
func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT id, tenant_id, title, description, location, is_remote, created_by_id, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	j := &domain.Job{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.TenantID, &j.Title, &j.Description, &j.Location, &j.IsRemote,
		&j.CreatedByID, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// Update updates an existing job posting, filtered by tenant.
func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET title = $1, description = $2, location = $3, is_remote = $4, updated_at = now()
		WHERE id = $5 AND tenant_id = $6
	`
	res, err := r.q.ExecContext(ctx, query,
		job.Title, job.Description, job.Location, job.IsRemote, job.ID, job.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant returns a tenant's postings, newest first.
func (r *jobRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Job, error) {
	query := `
		SELECT id, tenant_id, title, description, location, is_remote, created_by_id, created_at, updated_at
		FROM jobs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var out []*domain.Job
	for rows.Next() {
		j := &domain.Job{}
		if err := rows.Scan(
			&j.ID, &j.TenantID, &j.Title, &j.Description, &j.Location, &j.IsRemote,
			&j.CreatedByID, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
