package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourorg/hireloop/internal/domain"
)

// userRepository implements domain.UserRepository using PostgreSQL.
type userRepository struct {
	q querier
}

// Create creates a new staff user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, tenant_id, external_user_id, email, name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	if err := r.q.QueryRowContext(ctx, query,
		user.ID, user.TenantID, user.ExternalUserID, user.Email, user.Name,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, tenant_id, external_user_id, email, name, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByExternalID retrieves a user by identity-provider user ID.
func (r *userRepository) GetByExternalID(ctx context.Context, externalUserID string) (*domain.User, error) {
	query := `
		SELECT id, tenant_id, external_user_id, email, name, created_at, updated_at
		FROM users
		WHERE external_user_id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, externalUserID))
}

// ListByTenant returns all staff users of a tenant.
func (r *userRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	query := `
		SELECT id, tenant_id, external_user_id, email, name, created_at, updated_at
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.TenantID, &u.ExternalUserID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.TenantID, &u.ExternalUserID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
