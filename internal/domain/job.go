package domain

import (
	"context"
	"time"
)

// Job is a posting owned by a tenant. Read-only to candidates.
type Job struct {
	ID          string // UUID
	TenantID    string
	Title       string
	Description string
	Location    *string
	IsRemote    bool
	CreatedByID string // User that created the posting
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobRepository defines data access for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	// GetByID returns the job regardless of tenant; the apply flow resolves
	// the owning tenant from the posting itself.
	GetByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	ListByTenant(ctx context.Context, tenantID string) ([]*Job, error)
}
