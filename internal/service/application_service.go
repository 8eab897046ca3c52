package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/observability/metrics"
	"github.com/yourorg/hireloop/internal/scoring"
)

// CandidateInput carries the contact fields of an apply form submission.
type CandidateInput struct {
	FullName string
	Email    string
	Phone    string
	Location string
}

// SubmitResult is the outcome of a submission. AlreadyApplied marks the
// duplicate case, which is an expected outcome and not an error: callers
// redirect to the existing application instead of rendering a failure.
type SubmitResult struct {
	ApplicationID  string
	TenantID       string
	CandidateID    string
	Score          int
	AlreadyApplied bool
}

// StageNotifier receives stage transitions for live dashboard delivery.
type StageNotifier interface {
	NotifyStageChange(tenantID, applicationID string, from, to domain.Stage)
}

// Sanitizer strips markup from user-supplied text before it is persisted.
// Plain removes all markup; Rich keeps a safe formatting subset for job
// descriptions.
type Sanitizer interface {
	Plain(s string) string
	Rich(s string) string
}

// ApplicationService orchestrates candidate identity resolution, duplicate
// prevention, application creation and stage/notes updates against the
// injected store.
type ApplicationService struct {
	store     domain.Store
	engine    *scoring.Engine
	sanitizer Sanitizer
	notifier  StageNotifier
	logger    *slog.Logger
}

// NewApplicationService creates the lifecycle service. notifier may be nil
// when no live stream is configured.
func NewApplicationService(
	store domain.Store,
	engine *scoring.Engine,
	sanitizer Sanitizer,
	notifier StageNotifier,
	logger *slog.Logger,
) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		store:     store,
		engine:    engine,
		sanitizer: sanitizer,
		notifier:  notifier,
		logger:    logger,
	}
}

// Submit processes one application to a job. externalUserID is the signed-in
// identity of the applicant, if any; it is linked to the candidate record
// only when no link exists yet.
//
// The candidate upsert, duplicate check, application insert and answer
// inserts run in one transaction, and the store's unique index on
// (tenant_id, job_id, candidate_id) backstops the duplicate check under
// concurrent double-submission: either path yields the already-applied
// outcome, never a second row.
func (s *ApplicationService) Submit(ctx context.Context, jobID string, input CandidateInput, answers map[string]string, externalUserID string) (*SubmitResult, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	location := strings.TrimSpace(input.Location)

	if fullName == "" {
		return nil, domain.NewValidationError("fullName", "full name is required")
	}
	if email == "" && phone == "" {
		return nil, domain.NewValidationError("contact", "either email or phone is required")
	}

	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve job: %w", err)
	}
	tenantID := job.TenantID

	result := &SubmitResult{TenantID: tenantID}
	err = s.store.WithinTx(ctx, func(tx domain.Store) error {
		candidate, err := s.resolveCandidate(ctx, tx, tenantID, fullName, email, phone, location, externalUserID)
		if err != nil {
			return err
		}
		result.CandidateID = candidate.ID

		existing, err := tx.Applications().FindByJobAndCandidate(ctx, jobID, candidate.ID)
		if err == nil {
			result.ApplicationID = existing.ID
			result.Score = existing.Score
			result.AlreadyApplied = true
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		app := &domain.Application{
			TenantID:    tenantID,
			JobID:       jobID,
			CandidateID: candidate.ID,
			Stage:       domain.StageNew,
			Score:       s.engine.Score(answers),
		}
		if err := tx.Applications().Create(ctx, app); err != nil {
			if errors.Is(err, domain.ErrDuplicateApplication) {
				// Lost the race to a concurrent submission; surface the row
				// that won as the already-applied outcome.
				winner, ferr := tx.Applications().FindByJobAndCandidate(ctx, jobID, candidate.ID)
				if ferr != nil {
					return fmt.Errorf("duplicate application but winner not found: %w", ferr)
				}
				result.ApplicationID = winner.ID
				result.Score = winner.Score
				result.AlreadyApplied = true
				return nil
			}
			return err
		}

		if err := tx.Applications().CreateAnswers(ctx, s.answerRows(app.ID, answers)); err != nil {
			return err
		}

		result.ApplicationID = app.ID
		result.Score = app.Score
		return nil
	})
	if err != nil {
		metrics.ObserveSubmission("error")
		return nil, err
	}

	if result.AlreadyApplied {
		metrics.ObserveSubmission("duplicate")
		s.logger.Info("duplicate application short-circuited",
			slog.String("job_id", jobID),
			slog.String("candidate_id", result.CandidateID),
		)
	} else {
		metrics.ObserveSubmission("created")
		metrics.ObserveScreeningScore(result.Score)
		s.logger.Info("application submitted",
			slog.String("application_id", result.ApplicationID),
			slog.String("job_id", jobID),
			slog.Int("score", result.Score),
		)
	}
	return result, nil
}

// resolveCandidate finds the candidate by (tenant, email) then
// (tenant, phone), merging contact fields on a hit and creating the record
// otherwise. A present stored field is never replaced with a blank incoming
// value.
func (s *ApplicationService) resolveCandidate(ctx context.Context, tx domain.Store, tenantID, fullName, email, phone, location, externalUserID string) (*domain.Candidate, error) {
	repo := tx.Candidates()

	var candidate *domain.Candidate
	if email != "" {
		found, err := repo.FindByEmail(ctx, tenantID, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		candidate = found
	}
	if candidate == nil && phone != "" {
		found, err := repo.FindByPhone(ctx, tenantID, phone)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		candidate = found
	}

	if candidate == nil {
		candidate = &domain.Candidate{
			TenantID: tenantID,
			FullName: fullName,
			Email:    optional(email),
			Phone:    optional(phone),
			Location: optional(location),
		}
		if externalUserID != "" {
			candidate.ExternalUserID = &externalUserID
		}
		if err := repo.Create(ctx, candidate); err != nil {
			return nil, err
		}
		return candidate, nil
	}

	mergeField(&candidate.FullName, fullName)
	mergeOptional(&candidate.Email, email)
	mergeOptional(&candidate.Phone, phone)
	mergeOptional(&candidate.Location, location)
	if externalUserID != "" && candidate.ExternalUserID == nil {
		candidate.ExternalUserID = &externalUserID
	}
	if err := repo.Update(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// answerRows builds the Answer rows for a submission: one row per catalog
// question whose answer is non-empty, sanitized. Unknown keys are dropped.
func (s *ApplicationService) answerRows(applicationID string, answers map[string]string) []*domain.Answer {
	var rows []*domain.Answer
	for _, key := range questionKeys() {
		text := strings.TrimSpace(answers[key])
		if text == "" {
			continue
		}
		rows = append(rows, &domain.Answer{
			ApplicationID: applicationID,
			QuestionKey:   key,
			AnswerText:    s.sanitizer.Plain(text),
		})
	}
	return rows
}

// UpdateStage sets an application's stage. The update is filtered by
// (id, tenant_id): an id owned by another tenant affects zero rows and
// returns nil so existence never leaks. No transition graph is enforced.
func (s *ApplicationService) UpdateStage(ctx context.Context, applicationID, tenantID string, stage domain.Stage) error {
	if !stage.Valid() {
		return domain.NewValidationError("stage", fmt.Sprintf("unknown stage %q", stage))
	}

	current, err := s.store.Applications().GetByID(ctx, applicationID, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Wrong tenant or unknown id: deliberate no-op.
			return nil
		}
		return err
	}

	if err := s.store.Applications().UpdateStage(ctx, applicationID, tenantID, stage); err != nil {
		return err
	}

	metrics.ObserveStageTransition(string(current.Stage), string(stage))
	if s.notifier != nil && current.Stage != stage {
		s.notifier.NotifyStageChange(tenantID, applicationID, current.Stage, stage)
	}
	s.logger.Info("stage updated",
		slog.String("application_id", applicationID),
		slog.String("from", string(current.Stage)),
		slog.String("to", string(stage)),
	)
	return nil
}

// UpdateNotes sets an application's notes with the same tenant-filtered
// no-op semantics as UpdateStage. Blank notes are stored as NULL.
func (s *ApplicationService) UpdateNotes(ctx context.Context, applicationID, tenantID, notes string) error {
	trimmed := strings.TrimSpace(notes)
	var value *string
	if trimmed != "" {
		clean := s.sanitizer.Plain(trimmed)
		value = &clean
	}
	return s.store.Applications().UpdateNotes(ctx, applicationID, tenantID, value)
}

// List returns a tenant's applications for the dashboard, narrowed by filter.
func (s *ApplicationService) List(ctx context.Context, tenantID string, filter domain.ApplicationFilter) ([]*domain.ApplicationWithRefs, error) {
	if filter.Stage != "" && !filter.Stage.Valid() {
		return nil, domain.NewValidationError("stage", fmt.Sprintf("unknown stage %q", filter.Stage))
	}
	return s.store.Applications().ListByTenant(ctx, tenantID, filter)
}

// ApplicationDetail bundles one application with its screening answers.
type ApplicationDetail struct {
	Application *domain.Application
	Answers     []*domain.Answer
	Slots       []*domain.InterviewSlot
}

// Get returns one application with answers and interview slots,
// tenant-scoped.
func (s *ApplicationService) Get(ctx context.Context, applicationID, tenantID string) (*ApplicationDetail, error) {
	app, err := s.store.Applications().GetByID(ctx, applicationID, tenantID)
	if err != nil {
		return nil, err
	}
	answers, err := s.store.Applications().ListAnswers(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	slots, err := s.store.InterviewSlots().ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	return &ApplicationDetail{Application: app, Answers: answers, Slots: slots}, nil
}

// LookupCandidateByEmail searches across all tenants and returns the most
// recently created candidate with that email. Portal session recovery only;
// the cross-tenant scope is deliberate and documented in DESIGN.md.
func (s *ApplicationService) LookupCandidateByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	return s.store.Candidates().FindLatestByEmail(ctx, trimmed)
}

// PortalApplications returns a candidate's own applications. The session
// token is a pointer, not a capability: the candidate is revalidated against
// the store and must belong to the token's tenant.
func (s *ApplicationService) PortalApplications(ctx context.Context, tenantID, candidateID string) ([]*domain.ApplicationWithRefs, error) {
	candidate, err := s.store.Candidates().GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if candidate.TenantID != tenantID {
		return nil, domain.ErrUnauthorized
	}
	return s.store.Applications().ListByCandidate(ctx, tenantID, candidateID)
}

// CreateInterviewSlot publishes a proposed interview time for an
// application.
func (s *ApplicationService) CreateInterviewSlot(ctx context.Context, applicationID, tenantID string, startsAt, endsAt time.Time) (*domain.InterviewSlot, error) {
	if !endsAt.After(startsAt) {
		return nil, domain.NewValidationError("endsAt", "slot must end after it starts")
	}
	app, err := s.store.Applications().GetByID(ctx, applicationID, tenantID)
	if err != nil {
		return nil, err
	}
	slot := &domain.InterviewSlot{
		TenantID:      tenantID,
		ApplicationID: app.ID,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Status:        domain.SlotFree,
	}
	if err := s.store.InterviewSlots().Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mergeField(dst *string, incoming string) {
	if incoming != "" {
		*dst = incoming
	}
}

func mergeOptional(dst **string, incoming string) {
	if incoming != "" {
		v := incoming
		*dst = &v
	}
}
