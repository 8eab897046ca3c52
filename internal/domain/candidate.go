package domain

import (
	"context"
	"time"
)

// Candidate is the identity of an applicant within one tenant. Email and
// phone are each unique per tenant when present. Contact fields are merged on
// repeat applications: a present value is never overwritten with a blank one.
type Candidate struct {
	ID             string // UUID
	TenantID       string
	FullName       string
	Email          *string
	Phone          *string
	Location       *string
	ExternalUserID *string // Set when a signed-in identity applied
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CandidateRepository defines data access for candidates.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	// FindByEmail and FindByPhone are tenant-scoped unique lookups.
	// They return ErrNotFound when no candidate matches.
	FindByEmail(ctx context.Context, tenantID, email string) (*Candidate, error)
	FindByPhone(ctx context.Context, tenantID, phone string) (*Candidate, error)
	Update(ctx context.Context, candidate *Candidate) error

	// FindLatestByEmail searches by email across all tenants and returns the
	// most recently created match. Email is only unique per tenant, so this
	// can pick a candidate from a different tenant than the caller expects;
	// it exists solely for portal session recovery.
	FindLatestByEmail(ctx context.Context, email string) (*Candidate, error)
}
