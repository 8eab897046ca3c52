package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourorg/hireloop/internal/domain"
)

// tenantRepository implements domain.TenantRepository using PostgreSQL.
type tenantRepository struct {
	q querier
}

// Create creates a new tenant.
func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	query := `
		INSERT INTO tenants (id, name, org_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	if err := r.q.QueryRowContext(ctx, query, tenant.ID, tenant.Name, tenant.OrgID).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `
		SELECT id, name, org_id, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByOrgID retrieves the tenant bound to an identity-provider organization.
func (r *tenantRepository) GetByOrgID(ctx context.Context, orgID string) (*domain.Tenant, error) {
	query := `
		SELECT id, name, org_id, created_at, updated_at
		FROM tenants
		WHERE org_id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, orgID))
}

// FirstCreated returns the oldest tenant, used by the CLI seed check.
func (r *tenantRepository) FirstCreated(ctx context.Context) (*domain.Tenant, error) {
	query := `
		SELECT id, name, org_id, created_at, updated_at
		FROM tenants
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query))
}

func (r *tenantRepository) scanOne(row *sql.Row) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := row.Scan(&t.ID, &t.Name, &t.OrgID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}
