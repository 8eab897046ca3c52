package service

import (
	"context"
	"testing"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/pkg/cache"
)

func newJobService(store *memStore) *JobService {
	return NewJobService(store, cache.NewMemory(), passthroughSanitizer{}, nil)
}

func TestJobCreateRequiresTitle(t *testing.T) {
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	svc := newJobService(store)

	if _, err := svc.Create(context.Background(), tenant.ID, "user-1", JobInput{Title: "  "}); !domain.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestJobCreateAndList(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	svc := newJobService(store)

	job, err := svc.Create(ctx, tenant.ID, "user-1", JobInput{
		Title:    "Backend Engineer",
		Location: "  Berlin  ",
		IsRemote: true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if job.Location == nil || *job.Location != "Berlin" {
		t.Errorf("Location = %v, want trimmed Berlin", job.Location)
	}

	jobs, err := svc.ListByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListByTenant error: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("got %d jobs, want 1", len(jobs))
	}
}

func TestJobUpdateIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	other := store.AddTenant("Globex", "org_2")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc := newJobService(store)

	if _, err := svc.Update(ctx, other.ID, job.ID, JobInput{Title: "Hijacked"}); err != domain.ErrNotFound {
		t.Errorf("cross-tenant update: got %v, want ErrNotFound", err)
	}

	updated, err := svc.Update(ctx, tenant.ID, job.ID, JobInput{Title: "Staff Backend Engineer"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Title != "Staff Backend Engineer" {
		t.Errorf("Title = %q", updated.Title)
	}
}

func TestListOpenCachesListing(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	store.AddJob(tenant.ID, "Backend Engineer")
	svc := newJobService(store)

	first, err := svc.ListOpen(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListOpen error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d jobs, want 1", len(first))
	}

	// Mutate the store directly; the cached listing stays stale until
	// invalidated by a write through the service.
	store.AddJob(tenant.ID, "Frontend Engineer")
	second, err := svc.ListOpen(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListOpen error: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("cached listing has %d jobs, want stale 1", len(second))
	}

	// A write through the service invalidates the cache.
	if _, err := svc.Create(ctx, tenant.ID, "user-1", JobInput{Title: "Platform Engineer"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	third, err := svc.ListOpen(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListOpen error: %v", err)
	}
	if len(third) != 3 {
		t.Errorf("post-invalidation listing has %d jobs, want 3", len(third))
	}
}

func TestGetForApply(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme Corporation", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc := newJobService(store)

	detail, err := svc.GetForApply(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetForApply error: %v", err)
	}
	if detail.TenantName != "Acme Corporation" {
		t.Errorf("TenantName = %q", detail.TenantName)
	}
	if len(detail.Questions) != len(ScreeningQuestions) {
		t.Errorf("got %d questions, want %d", len(detail.Questions), len(ScreeningQuestions))
	}
}
