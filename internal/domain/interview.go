package domain

import (
	"context"
	"time"
)

// InterviewSlot statuses.
const (
	SlotFree   = "free"
	SlotHeld   = "held"
	SlotBooked = "booked"
)

// InterviewSlot is a proposed interview time for an application. Recruiters
// publish slots once an application reaches SCHEDULED; slots that pass their
// start time without being booked are released by the background worker.
type InterviewSlot struct {
	ID            string // UUID
	TenantID      string
	ApplicationID string
	StartsAt      time.Time
	EndsAt        time.Time
	Status        string // free, held, booked
	CreatedAt     time.Time
}

// InterviewSlotRepository defines data access for interview slots.
type InterviewSlotRepository interface {
	Create(ctx context.Context, slot *InterviewSlot) error
	ListByApplication(ctx context.Context, applicationID string) ([]*InterviewSlot, error)
	// DeleteExpiredUnbooked removes free/held slots whose start time is
	// before cutoff and returns how many were released.
	DeleteExpiredUnbooked(ctx context.Context, cutoff time.Time) (int, error)
}
