package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/hireloop/internal/domain"
)

// interviewSlotRepository implements domain.InterviewSlotRepository using
// PostgreSQL.
type interviewSlotRepository struct {
	q querier
}

// Create creates a new interview slot.
func (r *interviewSlotRepository) Create(ctx context.Context, slot *domain.InterviewSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	query := `
		INSERT INTO interview_slots (id, tenant_id, application_id, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.q.QueryRowContext(ctx, query,
		slot.ID, slot.TenantID, slot.ApplicationID, slot.StartsAt, slot.EndsAt, slot.Status,
	).Scan(&slot.CreatedAt); err != nil {
		return fmt.Errorf("failed to create interview slot: %w", err)
	}
	return nil
}

// ListByApplication returns an application's slots, soonest first.
func (r *interviewSlotRepository) ListByApplication(ctx context.Context, applicationID string) ([]*domain.InterviewSlot, error) {
	query := `
		SELECT id, tenant_id, application_id, starts_at, ends_at, status, created_at
		FROM interview_slots
		WHERE application_id = $1
		ORDER BY starts_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview slots: %w", err)
	}
	defer rows.Close()

	var out []*domain.InterviewSlot
	for rows.Next() {
		s := &domain.InterviewSlot{}
		if err := rows.Scan(&s.ID, &s.TenantID, &s.ApplicationID, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteExpiredUnbooked releases slots that started before cutoff and were
// never booked.
func (r *interviewSlotRepository) DeleteExpiredUnbooked(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		DELETE FROM interview_slots
		WHERE starts_at < $1 AND status IN ('free', 'held')
	`
	res, err := r.q.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired slots: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return int(rows), nil
}
