package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourorg/hireloop/internal/domain"
)

// candidateRepository implements domain.CandidateRepository using PostgreSQL.
type candidateRepository struct {
	q querier
}

const candidateColumns = `id, tenant_id, full_name, email, phone, location, external_user_id, created_at, updated_at`

// Create creates a new candidate scoped to a tenant.
func (r *candidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	query := `
		INSERT INTO candidates (id, tenant_id, full_name, email, phone, location, external_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	if err := r.q.QueryRowContext(ctx, query,
		candidate.ID, candidate.TenantID, candidate.FullName,
		candidate.Email, candidate.Phone, candidate.Location, candidate.ExternalUserID,
	).Scan(&candidate.CreatedAt, &candidate.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// GetByID retrieves a candidate by ID.
func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByEmail is the tenant-scoped unique email lookup.
func (r *candidateRepository) FindByEmail(ctx context.Context, tenantID, email string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE tenant_id = $1 AND email = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, tenantID, email))
}

// FindByPhone is the tenant-scoped unique phone lookup.
func (r *candidateRepository) FindByPhone(ctx context.Context, tenantID, phone string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE tenant_id = $1 AND phone = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, tenantID, phone))
}

// FindLatestByEmail searches across tenants, newest candidate first. Portal
// session recovery only; see the interface doc for the tenant caveat.
func (r *candidateRepository) FindLatestByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, email))
}

// Update persists merged candidate fields. The merge itself (never blanking a
// present value) happens in the lifecycle service before this call.
func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		UPDATE candidates
		SET full_name = $1, email = $2, phone = $3, location = $4, external_user_id = $5, updated_at = now()
		WHERE id = $6 AND tenant_id = $7
	`
	res, err := r.q.ExecContext(ctx, query,
		candidate.FullName, candidate.Email, candidate.Phone, candidate.Location,
		candidate.ExternalUserID, candidate.ID, candidate.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
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

func (r *candidateRepository) scanOne(row *sql.Row) (*domain.Candidate, error) {
	c := &domain.Candidate{}
	err := row.Scan(
		&c.ID, &c.TenantID, &c.FullName, &c.Email, &c.Phone, &c.Location,
		&c.ExternalUserID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}
