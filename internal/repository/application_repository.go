package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/yourorg/hireloop/internal/domain"
)

// applicationRepository implements domain.ApplicationRepository using
// PostgreSQL.
type applicationRepository struct {
	q querier
}

// uniqueViolation is the Postgres error code for unique-index collisions.
const uniqueViolation = "23505"

// Create inserts a new application. A collision with the
// (tenant_id, job_id, candidate_id) unique index means the candidate already
// applied, which the lifecycle treats as a non-error outcome.
func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	query := `
		INSERT INTO applications (id, tenant_id, job_id, candidate_id, stage, score, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.q.QueryRowContext(ctx, query,
		app.ID, app.TenantID, app.JobID, app.CandidateID, string(app.Stage), app.Score, app.Notes,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateApplication
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// FindByJobAndCandidate is the duplicate-application lookup.
func (r *applicationRepository) FindByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*domain.Application, error) {
	query := `
		SELECT id, tenant_id, job_id, candidate_id, stage, score, notes, created_at, updated_at
		FROM applications
		WHERE job_id = $1 AND candidate_id = $2
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, jobID, candidateID))
}

// GetByID retrieves an application scoped to a tenant.
func (r *applicationRepository) GetByID(ctx context.Context, id, tenantID string) (*domain.Application, error) {
	query := `
		SELECT id, tenant_id, job_id, candidate_id, stage, score, notes, created_at, updated_at
		FROM applications
		WHERE id = $1 AND tenant_id = $2
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id, tenantID))
}

// UpdateStage sets the stage, filtered by (id, tenant_id). A tenant mismatch
// affects zero rows and is deliberately not an error: the caller must not be
// able to probe for rows belonging to other tenants.
func (r *applicationRepository) UpdateStage(ctx context.Context, id, tenantID string, stage domain.Stage) error {
	query := `
		UPDATE applications
		SET stage = $1, updated_at = now()
		WHERE id = $2 AND tenant_id = $3
	`
	if _, err := r.q.ExecContext(ctx, query, string(stage), id, tenantID); err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}
	return nil
}

// UpdateNotes sets the notes with the same tenant-filtered no-op semantics as
// UpdateStage. Nil notes store as NULL.
func (r *applicationRepository) UpdateNotes(ctx context.Context, id, tenantID string, notes *string) error {
	query := `
		UPDATE applications
		SET notes = $1, updated_at = now()
		WHERE id = $2 AND tenant_id = $3
	`
	if _, err := r.q.ExecContext(ctx, query, notes, id, tenantID); err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	return nil
}

const applicationWithRefsQuery = `
	SELECT a.id, a.tenant_id, a.job_id, a.candidate_id, a.stage, a.score, a.notes,
	       a.created_at, a.updated_at,
	       c.full_name, c.email, j.title
	FROM applications a
	JOIN candidates c ON c.id = a.candidate_id
	JOIN jobs j ON j.id = a.job_id
`

// ListByTenant returns dashboard rows newest first, narrowed by filter.
func (r *applicationRepository) ListByTenant(ctx context.Context, tenantID string, filter domain.ApplicationFilter) ([]*domain.ApplicationWithRefs, error) {
	var sb strings.Builder
	sb.WriteString(applicationWithRefsQuery)
	sb.WriteString(" WHERE a.tenant_id = $1")
	args := []any{tenantID}

	if filter.JobID != "" {
		args = append(args, filter.JobID)
		fmt.Fprintf(&sb, " AND a.job_id = $%d", len(args))
	}
	if filter.Stage != "" {
		args = append(args, string(filter.Stage))
		fmt.Fprintf(&sb, " AND a.stage = $%d", len(args))
	}
	if filter.MinScore > 0 {
		args = append(args, filter.MinScore)
		fmt.Fprintf(&sb, " AND a.score >= $%d", len(args))
	}
	sb.WriteString(" ORDER BY a.created_at DESC")

	return r.listWithRefs(ctx, sb.String(), args...)
}

// ListByCandidate returns a candidate's own applications for the portal.
func (r *applicationRepository) ListByCandidate(ctx context.Context, tenantID, candidateID string) ([]*domain.ApplicationWithRefs, error) {
	query := applicationWithRefsQuery +
		" WHERE a.tenant_id = $1 AND a.candidate_id = $2 ORDER BY a.created_at DESC"
	return r.listWithRefs(ctx, query, tenantID, candidateID)
}

// CreateAnswers bulk-inserts the non-empty screening answers of a submission.
func (r *applicationRepository) CreateAnswers(ctx context.Context, answers []*domain.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO answers (id, application_id, question_key, answer_text) VALUES `)
	args := make([]any, 0, len(answers)*4)
	for i, a := range answers {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, a.ID, a.ApplicationID, a.QuestionKey, a.AnswerText)
	}
	if _, err := r.q.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to create answers: %w", err)
	}
	return nil
}

// ListAnswers returns an application's answers in question order.
func (r *applicationRepository) ListAnswers(ctx context.Context, applicationID string) ([]*domain.Answer, error) {
	query := `
		SELECT id, application_id, question_key, answer_text, created_at
		FROM answers
		WHERE application_id = $1
		ORDER BY question_key ASC
	`
	rows, err := r.q.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Answer
	for rows.Next() {
		a := &domain.Answer{}
		if err := rows.Scan(&a.ID, &a.ApplicationID, &a.QuestionKey, &a.AnswerText, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountOpen counts applications outside the terminal side-exits, across all
// tenants, for the pipeline gauge.
func (r *applicationRepository) CountOpen(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM applications
		WHERE stage NOT IN ('HIRED', 'REJECTED', 'DROPPED')
	`
	var count int
	if err := r.q.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open applications: %w", err)
	}
	return count, nil
}

func (r *applicationRepository) listWithRefs(ctx context.Context, query string, args ...any) ([]*domain.ApplicationWithRefs, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var out []*domain.ApplicationWithRefs
	for rows.Next() {
		a := &domain.ApplicationWithRefs{}
		var stage string
		if err := rows.Scan(
			&a.ID, &a.TenantID, &a.JobID, &a.CandidateID, &stage, &a.Score, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt,
			&a.CandidateName, &a.CandidateEmail, &a.JobTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		a.Stage = domain.Stage(stage)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *applicationRepository) scanOne(row *sql.Row) (*domain.Application, error) {
	a := &domain.Application{}
	var stage string
	err := row.Scan(
		&a.ID, &a.TenantID, &a.JobID, &a.CandidateID, &stage, &a.Score, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	a.Stage = domain.Stage(stage)
	return a, nil
}
