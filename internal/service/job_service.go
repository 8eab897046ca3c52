package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/pkg/cache"
)

// listingTTL bounds how stale the public job listing may get.
const listingTTL = 60 * time.Second

// JobInput carries the editable fields of a posting.
type JobInput struct {
	Title       string
	Description string
	Location    string
	IsRemote    bool
}

// JobForApply is the public posting detail shown on the apply page.
type JobForApply struct {
	Job        *domain.Job
	TenantName string
	Questions  []Question
}

// JobService manages postings and the cached public listing.
type JobService struct {
	store     domain.Store
	cache     cache.Store
	sanitizer Sanitizer
	logger    *slog.Logger
}

// NewJobService creates a job service.
func NewJobService(store domain.Store, c cache.Store, sanitizer Sanitizer, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{store: store, cache: c, sanitizer: sanitizer, logger: logger}
}

// Create creates a posting and invalidates the tenant's cached listing.
func (s *JobService) Create(ctx context.Context, tenantID, createdByID string, in JobInput) (*domain.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}

	job := &domain.Job{
		TenantID:    tenantID,
		Title:       title,
		Description: s.sanitizer.Rich(in.Description),
		Location:    optional(strings.TrimSpace(in.Location)),
		IsRemote:    in.IsRemote,
		CreatedByID: createdByID,
	}
	if err := s.store.Jobs().Create(ctx, job); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, listingKey(tenantID))
	s.logger.Info("job created",
		slog.String("job_id", job.ID),
		slog.String("tenant_id", tenantID),
		slog.String("title", job.Title),
	)
	return job, nil
}

// Update edits a posting and invalidates the tenant's cached listing.
func (s *JobService) Update(ctx context.Context, tenantID, jobID string, in JobInput) (*domain.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}

	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	job.Title = title
	job.Description = s.sanitizer.Rich(in.Description)
	job.Location = optional(strings.TrimSpace(in.Location))
	job.IsRemote = in.IsRemote
	if err := s.store.Jobs().Update(ctx, job); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, listingKey(tenantID))
	return job, nil
}

// ListByTenant returns a tenant's postings for the dashboard, uncached.
func (s *JobService) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Job, error) {
	return s.store.Jobs().ListByTenant(ctx, tenantID)
}

// ListOpen returns the public listing for the portal, served from cache when
// fresh. A cache failure falls through to the store; the listing must never
// 500 because redis is down.
func (s *JobService) ListOpen(ctx context.Context, tenantID string) ([]*domain.Job, error) {
	key := listingKey(tenantID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var jobs []*domain.Job
		if err := json.Unmarshal([]byte(raw), &jobs); err == nil {
			return jobs, nil
		}
		s.logger.Warn("discarding undecodable listing cache entry", slog.String("key", key))
		s.cache.Delete(ctx, key)
	}

	jobs, err := s.store.Jobs().ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(jobs); err == nil {
		s.cache.Set(ctx, key, string(raw), listingTTL)
	}
	return jobs, nil
}

// GetForApply returns the posting detail plus the screening question set for
// the public apply page.
func (s *JobService) GetForApply(ctx context.Context, jobID string) (*JobForApply, error) {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.store.Tenants().GetByID(ctx, job.TenantID)
	if err != nil {
		return nil, err
	}
	return &JobForApply{
		Job:        job,
		TenantName: tenant.Name,
		Questions:  ScreeningQuestions,
	}, nil
}

func listingKey(tenantID string) string {
	return "jobs:" + tenantID
}
