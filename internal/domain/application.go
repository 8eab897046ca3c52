package domain

import (
	"context"
	"time"
)

// Stage is the pipeline position of an application. The values are ordered by
// progression for display purposes only: no transition table is enforced, and
// a recruiter may set any stage from any other stage, including moving out of
// HIRED/REJECTED/DROPPED again.
type Stage string

const (
	StageNew         Stage = "NEW"
	StageScreened    Stage = "SCREENED"
	StageShortlisted Stage = "SHORTLISTED"
	StageScheduled   Stage = "SCHEDULED"
	StageInterviewed Stage = "INTERVIEWED"
	StageOffered     Stage = "OFFERED"
	StageHired       Stage = "HIRED"
	StageRejected    Stage = "REJECTED"
	StageDropped     Stage = "DROPPED"
)

// Stages lists all stages in pipeline order, terminal side-exits last.
func Stages() []Stage {
	return []Stage{
		StageNew, StageScreened, StageShortlisted, StageScheduled,
		StageInterviewed, StageOffered, StageHired,
		StageRejected, StageDropped,
	}
}

// Valid reports whether s is one of the nine enumerated stages.
func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageScreened, StageShortlisted, StageScheduled,
		StageInterviewed, StageOffered, StageHired, StageRejected, StageDropped:
		return true
	}
	return false
}

// Application joins one candidate to one job within a tenant and carries the
// pipeline state. At most one application exists per (job, candidate) pair.
type Application struct {
	ID          string // UUID
	TenantID    string
	JobID       string
	CandidateID string
	Stage       Stage
	Score       int // 0-100, computed once at submission
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Answer is one screening question/answer pair tied to an application.
// Answers are written in bulk at submission time and immutable afterward.
type Answer struct {
	ID            string // UUID
	ApplicationID string
	QuestionKey   string
	AnswerText    string
	CreatedAt     time.Time
}

// ApplicationFilter narrows dashboard listings. Zero values mean "no filter".
type ApplicationFilter struct {
	JobID    string
	Stage    Stage
	MinScore int
}

// ApplicationWithRefs is a listing row joined with candidate and job labels.
type ApplicationWithRefs struct {
	Application
	CandidateName  string
	CandidateEmail *string
	JobTitle       string
}

// ApplicationRepository defines data access for applications and their
// answers.
type ApplicationRepository interface {
	// Create inserts the application. A collision with the
	// (tenant_id, job_id, candidate_id) unique index is returned as
	// ErrDuplicateApplication.
	Create(ctx context.Context, app *Application) error

	// FindByJobAndCandidate returns ErrNotFound when the pair has not applied.
	FindByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*Application, error)

	// GetByID is tenant-scoped: an id belonging to another tenant yields
	// ErrNotFound.
	GetByID(ctx context.Context, id, tenantID string) (*Application, error)

	// UpdateStage and UpdateNotes filter by (id, tenant_id). A tenant
	// mismatch affects zero rows and returns nil: callers must not be able
	// to distinguish "wrong tenant" from "updated".
	UpdateStage(ctx context.Context, id, tenantID string, stage Stage) error
	UpdateNotes(ctx context.Context, id, tenantID string, notes *string) error

	ListByTenant(ctx context.Context, tenantID string, filter ApplicationFilter) ([]*ApplicationWithRefs, error)
	ListByCandidate(ctx context.Context, tenantID, candidateID string) ([]*ApplicationWithRefs, error)

	CreateAnswers(ctx context.Context, answers []*Answer) error
	ListAnswers(ctx context.Context, applicationID string) ([]*Answer, error)

	// CountOpenByTenant counts applications not in a terminal side-exit,
	// used for the pipeline gauge.
	CountOpen(ctx context.Context) (int, error)
}
