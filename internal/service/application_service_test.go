package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/scoring"
)

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyStageChange(tenantID, applicationID string, from, to domain.Stage) {
	n.calls = append(n.calls, string(from)+"->"+string(to))
}

func newAppService(store *memStore) (*ApplicationService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewApplicationService(store, scoring.NewEngine(), passthroughSanitizer{}, notifier, nil)
	return svc, notifier
}

func TestSubmitCreatesApplication(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	answers := map[string]string{
		"yearsExperience": "8",
		"reactExperience": "4",
		"systemDesign":    "Built a service behind a load balancer with a redis cache.",
		"availability":    "immediate",
		"noticePeriod":    "none",
		"unknownKey":      "should be dropped",
	}
	result, err := svc.Submit(ctx, job.ID, CandidateInput{
		FullName: "  Alice Johnson  ",
		Email:    "alice@example.com",
	}, answers, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if result.AlreadyApplied {
		t.Error("first submission should not be AlreadyApplied")
	}
	if result.TenantID != tenant.ID {
		t.Errorf("TenantID = %q, want %q", result.TenantID, tenant.ID)
	}

	app, err := store.Applications().GetByID(ctx, result.ApplicationID, tenant.ID)
	if err != nil {
		t.Fatalf("application not stored: %v", err)
	}
	if app.Stage != domain.StageNew {
		t.Errorf("Stage = %q, want NEW", app.Stage)
	}
	if app.Score != result.Score || app.Score < 0 || app.Score > 100 {
		t.Errorf("stored score %d inconsistent with result %d", app.Score, result.Score)
	}

	candidate, err := store.Candidates().GetByID(ctx, result.CandidateID)
	if err != nil {
		t.Fatalf("candidate not stored: %v", err)
	}
	if candidate.FullName != "Alice Johnson" {
		t.Errorf("FullName = %q, want trimmed name", candidate.FullName)
	}

	stored, _ := store.Applications().ListAnswers(ctx, app.ID)
	if len(stored) != 5 {
		t.Fatalf("stored %d answers, want 5 (unknown key dropped)", len(stored))
	}
	for _, ans := range stored {
		if ans.QuestionKey == "unknownKey" {
			t.Error("unknown answer key was persisted")
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	_, err := svc.Submit(ctx, job.ID, CandidateInput{Email: "a@b.com"}, nil, "")
	if !domain.IsValidation(err) {
		t.Errorf("missing name: got %v, want validation error", err)
	}

	_, err = svc.Submit(ctx, job.ID, CandidateInput{FullName: "Bob"}, nil, "")
	if !domain.IsValidation(err) {
		t.Errorf("missing contact: got %v, want validation error", err)
	}
}

func TestSubmitUnknownJob(t *testing.T) {
	store := newMemStore()
	svc, _ := newAppService(store)

	_, err := svc.Submit(context.Background(), "missing", CandidateInput{FullName: "Bob", Email: "b@x.com"}, nil, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSubmitDuplicateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	input := CandidateInput{FullName: "Alice", Email: "alice@example.com"}
	first, err := svc.Submit(ctx, job.ID, input, map[string]string{"yearsExperience": "9"}, "")
	if err != nil {
		t.Fatalf("first Submit error: %v", err)
	}

	second, err := svc.Submit(ctx, job.ID, input, map[string]string{"yearsExperience": "1"}, "")
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if !second.AlreadyApplied {
		t.Error("second submission should report AlreadyApplied")
	}
	if second.ApplicationID != first.ApplicationID {
		t.Errorf("second ApplicationID = %q, want first %q", second.ApplicationID, first.ApplicationID)
	}
	if second.Score != first.Score {
		t.Errorf("duplicate must keep original score %d, got %d", first.Score, second.Score)
	}

	apps, _ := store.Applications().ListByTenant(ctx, tenant.ID, domain.ApplicationFilter{})
	if len(apps) != 1 {
		t.Errorf("stored %d applications, want 1", len(apps))
	}
}

func TestSubmitMergesCandidateContactFields(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job1 := store.AddJob(tenant.ID, "Backend Engineer")
	job2 := store.AddJob(tenant.ID, "Frontend Engineer")
	svc, _ := newAppService(store)

	first, err := svc.Submit(ctx, job1.ID, CandidateInput{
		FullName: "Alice",
		Email:    "alice@example.com",
		Location: "Berlin",
	}, nil, "")
	if err != nil {
		t.Fatalf("first Submit error: %v", err)
	}

	// Same email, new phone, blank location: phone is added, location kept.
	second, err := svc.Submit(ctx, job2.ID, CandidateInput{
		FullName: "Alice J",
		Email:    "alice@example.com",
		Phone:    "+1-555-0101",
	}, nil, "ext_42")
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if second.CandidateID != first.CandidateID {
		t.Fatalf("expected same candidate, got %q and %q", first.CandidateID, second.CandidateID)
	}

	candidate, _ := store.Candidates().GetByID(ctx, first.CandidateID)
	if candidate.FullName != "Alice J" {
		t.Errorf("FullName = %q, want updated name", candidate.FullName)
	}
	if candidate.Phone == nil || *candidate.Phone != "+1-555-0101" {
		t.Error("phone was not merged in")
	}
	if candidate.Location == nil || *candidate.Location != "Berlin" {
		t.Error("blank location overwrote the stored value")
	}
	if candidate.ExternalUserID == nil || *candidate.ExternalUserID != "ext_42" {
		t.Error("external user id was not linked")
	}

	// A third submission cannot re-link to a different identity.
	if _, err := svc.Submit(ctx, job1.ID, CandidateInput{
		FullName: "Alice",
		Email:    "alice@example.com",
	}, nil, "ext_other"); err != nil {
		t.Fatalf("third Submit error: %v", err)
	}
	candidate, _ = store.Candidates().GetByID(ctx, first.CandidateID)
	if *candidate.ExternalUserID != "ext_42" {
		t.Errorf("ExternalUserID = %q, want original link preserved", *candidate.ExternalUserID)
	}
}

func TestSubmitFindsCandidateByPhone(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job1 := store.AddJob(tenant.ID, "Backend Engineer")
	job2 := store.AddJob(tenant.ID, "Frontend Engineer")
	svc, _ := newAppService(store)

	first, err := svc.Submit(ctx, job1.ID, CandidateInput{FullName: "Bob", Phone: "+1-555-0102"}, nil, "")
	if err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	second, err := svc.Submit(ctx, job2.ID, CandidateInput{FullName: "Bob", Phone: "+1-555-0102"}, nil, "")
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if second.CandidateID != first.CandidateID {
		t.Error("phone lookup did not reuse the candidate")
	}
}

func TestUpdateStage(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, notifier := newAppService(store)

	result, err := svc.Submit(ctx, job.ID, CandidateInput{FullName: "Alice", Email: "a@x.com"}, nil, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if err := svc.UpdateStage(ctx, result.ApplicationID, tenant.ID, "ARCHIVED"); !domain.IsValidation(err) {
		t.Errorf("invalid stage: got %v, want validation error", err)
	}

	if err := svc.UpdateStage(ctx, result.ApplicationID, tenant.ID, domain.StageScreened); err != nil {
		t.Fatalf("UpdateStage error: %v", err)
	}
	app, _ := store.Applications().GetByID(ctx, result.ApplicationID, tenant.ID)
	if app.Stage != domain.StageScreened {
		t.Errorf("Stage = %q, want SCREENED", app.Stage)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "NEW->SCREENED" {
		t.Errorf("notifier calls = %v, want [NEW->SCREENED]", notifier.calls)
	}

	// Any-to-any transitions are allowed, including leaving terminal stages.
	if err := svc.UpdateStage(ctx, result.ApplicationID, tenant.ID, domain.StageHired); err != nil {
		t.Fatalf("UpdateStage to HIRED error: %v", err)
	}
	if err := svc.UpdateStage(ctx, result.ApplicationID, tenant.ID, domain.StageNew); err != nil {
		t.Fatalf("UpdateStage out of HIRED error: %v", err)
	}
}

func TestUpdateStageWrongTenantIsSilentNoop(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	other := store.AddTenant("Globex", "org_2")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, notifier := newAppService(store)

	result, err := svc.Submit(ctx, job.ID, CandidateInput{FullName: "Alice", Email: "a@x.com"}, nil, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if err := svc.UpdateStage(ctx, result.ApplicationID, other.ID, domain.StageRejected); err != nil {
		t.Fatalf("cross-tenant UpdateStage should be a nil no-op, got %v", err)
	}
	app, _ := store.Applications().GetByID(ctx, result.ApplicationID, tenant.ID)
	if app.Stage != domain.StageNew {
		t.Errorf("cross-tenant update changed stage to %q", app.Stage)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("cross-tenant no-op must not notify, got %v", notifier.calls)
	}
}

func TestUpdateNotes(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	result, err := svc.Submit(ctx, job.ID, CandidateInput{FullName: "Alice", Email: "a@x.com"}, nil, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if err := svc.UpdateNotes(ctx, result.ApplicationID, tenant.ID, "  strong candidate  "); err != nil {
		t.Fatalf("UpdateNotes error: %v", err)
	}
	app, _ := store.Applications().GetByID(ctx, result.ApplicationID, tenant.ID)
	if app.Notes == nil || *app.Notes != "strong candidate" {
		t.Errorf("Notes = %v, want trimmed text", app.Notes)
	}

	if err := svc.UpdateNotes(ctx, result.ApplicationID, tenant.ID, "   "); err != nil {
		t.Fatalf("UpdateNotes blank error: %v", err)
	}
	app, _ = store.Applications().GetByID(ctx, result.ApplicationID, tenant.ID)
	if app.Notes != nil {
		t.Errorf("blank notes should clear the field, got %q", *app.Notes)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	if _, err := svc.List(ctx, tenant.ID, domain.ApplicationFilter{Stage: "BOGUS"}); !domain.IsValidation(err) {
		t.Errorf("invalid stage filter: got %v, want validation error", err)
	}

	r1, _ := svc.Submit(ctx, job.ID, CandidateInput{FullName: "Alice", Email: "a@x.com"}, nil, "")
	svc.Submit(ctx, job.ID, CandidateInput{FullName: "Bob", Email: "b@x.com"}, nil, "")
	svc.UpdateStage(ctx, r1.ApplicationID, tenant.ID, domain.StageScreened)

	rows, err := svc.List(ctx, tenant.ID, domain.ApplicationFilter{Stage: domain.StageScreened})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != r1.ApplicationID {
		t.Errorf("stage filter returned %d rows", len(rows))
	}
}

func TestPortalApplicationsRevalidatesTenant(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	other := store.AddTenant("Globex", "org_2")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	result, err := svc.Submit(ctx, job.ID, CandidateInput{FullName: "Alice", Email: "a@x.com"}, nil, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	apps, err := svc.PortalApplications(ctx, tenant.ID, result.CandidateID)
	if err != nil {
		t.Fatalf("PortalApplications error: %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("got %d applications, want 1", len(apps))
	}

	if _, err := svc.PortalApplications(ctx, other.ID, result.CandidateID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("tenant mismatch: got %v, want ErrUnauthorized", err)
	}
	if _, err := svc.PortalApplications(ctx, tenant.ID, "ghost"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown candidate: got %v, want ErrUnauthorized", err)
	}
}

func TestLookupCandidateByEmailPicksLatest(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	t1 := store.AddTenant("Acme", "org_1")
	t2 := store.AddTenant("Globex", "org_2")
	svc, _ := newAppService(store)

	email := "shared@example.com"
	older := &domain.Candidate{TenantID: t1.ID, FullName: "Old", Email: &email}
	store.Candidates().Create(ctx, older)
	older.CreatedAt = time.Now().Add(-time.Hour)

	newer := &domain.Candidate{TenantID: t2.ID, FullName: "New", Email: &email}
	store.Candidates().Create(ctx, newer)

	found, err := svc.LookupCandidateByEmail(ctx, email)
	if err != nil {
		t.Fatalf("LookupCandidateByEmail error: %v", err)
	}
	if found.ID != newer.ID {
		t.Errorf("found %q, want most recently created %q", found.ID, newer.ID)
	}

	if _, err := svc.LookupCandidateByEmail(ctx, "  "); !domain.IsValidation(err) {
		t.Errorf("blank email: got %v, want validation error", err)
	}
}

func TestCreateInterviewSlot(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tenant := store.AddTenant("Acme", "org_1")
	job := store.AddJob(tenant.ID, "Backend Engineer")
	svc, _ := newAppService(store)

	result, err := svc.Submit(ctx, job.ID, CandidateInput{FullName: "Alice", Email: "a@x.com"}, nil, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	now := time.Now()
	if _, err := svc.CreateInterviewSlot(ctx, result.ApplicationID, tenant.ID, now, now.Add(-time.Hour)); !domain.IsValidation(err) {
		t.Errorf("inverted window: got %v, want validation error", err)
	}

	slot, err := svc.CreateInterviewSlot(ctx, result.ApplicationID, tenant.ID, now.Add(24*time.Hour), now.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("CreateInterviewSlot error: %v", err)
	}
	if slot.Status != domain.SlotFree {
		t.Errorf("Status = %q, want free", slot.Status)
	}

	detail, err := svc.Get(ctx, result.ApplicationID, tenant.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(detail.Slots) != 1 {
		t.Errorf("detail has %d slots, want 1", len(detail.Slots))
	}
}
