package domain

import "context"

// Store bundles the tenant-scoped repositories behind one injected handle.
// WithinTx runs fn against a store whose repositories share a single
// database transaction; the submit path uses it so the candidate upsert,
// duplicate check, application insert and answer inserts commit or roll back
// together.
type Store interface {
	Tenants() TenantRepository
	Users() UserRepository
	Jobs() JobRepository
	Candidates() CandidateRepository
	Applications() ApplicationRepository
	InterviewSlots() InterviewSlotRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}
