package domain

import (
	"context"
	"time"
)

// Tenant represents one organization's isolated data partition. Every other
// entity is scoped by TenantID.
type Tenant struct {
	ID        string // UUID
	Name      string
	OrgID     string // External identity-provider organization ID, unique
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User represents a staff member (recruiter) of a tenant.
type User struct {
	ID             string // UUID
	TenantID       string
	ExternalUserID string // Identity-provider user ID, unique
	Email          string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetByOrgID(ctx context.Context, orgID string) (*Tenant, error)
	FirstCreated(ctx context.Context) (*Tenant, error)
}

// UserRepository defines data access for staff users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, externalUserID string) (*User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*User, error)
}
