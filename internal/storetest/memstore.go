// Package storetest provides an in-memory domain.Store implementation for
// service and handler tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
)

// Store is an in-memory domain.Store for tests. WithinTx runs
// the callback against the same store; transactional rollback is not
// simulated.
type Store struct {
	mu      sync.Mutex
	nextID  int
	tenants map[string]*domain.Tenant
	users   map[string]*domain.User
	jobs    map[string]*domain.Job
	cands   map[string]*domain.Candidate
	apps    map[string]*domain.Application
	answers map[string][]*domain.Answer
	slots   map[string]*domain.InterviewSlot

	createdOrder []string // tenant ids in creation order
}

func New() *Store {
	return &Store{
		tenants: map[string]*domain.Tenant{},
		users:   map[string]*domain.User{},
		jobs:    map[string]*domain.Job{},
		cands:   map[string]*domain.Candidate{},
		apps:    map[string]*domain.Application{},
		answers: map[string][]*domain.Answer{},
		slots:   map[string]*domain.InterviewSlot{},
	}
}

func (s *Store) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *Store) Tenants() domain.TenantRepository              { return (*tenantRepo)(s) }
func (s *Store) Users() domain.UserRepository                  { return (*userRepo)(s) }
func (s *Store) Jobs() domain.JobRepository                    { return (*jobRepo)(s) }
func (s *Store) Candidates() domain.CandidateRepository        { return (*candidateRepo)(s) }
func (s *Store) Applications() domain.ApplicationRepository    { return (*applicationRepo)(s) }
func (s *Store) InterviewSlots() domain.InterviewSlotRepository { return (*slotRepo)(s) }

func (s *Store) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	return fn(s)
}

// seed helpers

func (s *Store) AddTenant(name, orgID string) *domain.Tenant {
	t := &domain.Tenant{ID: s.id("tenant"), Name: name, OrgID: orgID, CreatedAt: time.Now()}
	s.tenants[t.ID] = t
	s.createdOrder = append(s.createdOrder, t.ID)
	return t
}

func (s *Store) AddJob(tenantID, title string) *domain.Job {
	j := &domain.Job{ID: s.id("job"), TenantID: tenantID, Title: title, CreatedAt: time.Now()}
	s.jobs[j.ID] = j
	return j
}

type tenantRepo Store

func (r *tenantRepo) Create(ctx context.Context, tenant *domain.Tenant) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.OrgID == tenant.OrgID {
			return fmt.Errorf("org_id taken")
		}
	}
	if tenant.ID == "" {
		tenant.ID = s.id("tenant")
	}
	tenant.CreatedAt = time.Now()
	s.tenants[tenant.ID] = tenant
	s.createdOrder = append(s.createdOrder, tenant.ID)
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenants[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (r *tenantRepo) GetByOrgID(ctx context.Context, orgID string) (*domain.Tenant, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.OrgID == orgID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *tenantRepo) FirstCreated(ctx context.Context) (*domain.Tenant, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.createdOrder) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.tenants[s.createdOrder[0]], nil
}

type userRepo Store

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ExternalUserID == user.ExternalUserID {
			return fmt.Errorf("external_user_id taken")
		}
	}
	if user.ID == "" {
		user.ID = s.id("user")
	}
	s.users[user.ID] = user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) GetByExternalID(ctx context.Context, externalUserID string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ExternalUserID == externalUserID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.User
	for _, u := range s.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

type jobRepo Store

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == "" {
		job.ID = s.id("job")
	}
	job.CreatedAt = time.Now()
	s.jobs[job.ID] = job
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		return j, nil
	}
	return nil, domain.ErrNotFound
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	s.jobs[job.ID] = job
	return nil
}

func (r *jobRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Job, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Job
	for _, j := range s.jobs {
		if j.TenantID == tenantID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

type candidateRepo Store

func (r *candidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if candidate.ID == "" {
		candidate.ID = s.id("cand")
	}
	candidate.CreatedAt = time.Now()
	s.cands[candidate.ID] = candidate
	return nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cands[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *candidateRepo) FindByEmail(ctx context.Context, tenantID, email string) (*domain.Candidate, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cands {
		if c.TenantID == tenantID && c.Email != nil && strings.EqualFold(*c.Email, email) {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *candidateRepo) FindByPhone(ctx context.Context, tenantID, phone string) (*domain.Candidate, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cands {
		if c.TenantID == tenantID && c.Phone != nil && *c.Phone == phone {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *candidateRepo) Update(ctx context.Context, candidate *domain.Candidate) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cands[candidate.ID]; !ok {
		return domain.ErrNotFound
	}
	s.cands[candidate.ID] = candidate
	return nil
}

func (r *candidateRepo) FindLatestByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.Candidate
	for _, c := range s.cands {
		if c.Email == nil || !strings.EqualFold(*c.Email, email) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

type applicationRepo Store

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.TenantID == app.TenantID && a.JobID == app.JobID && a.CandidateID == app.CandidateID {
			return domain.ErrDuplicateApplication
		}
	}
	if app.ID == "" {
		app.ID = s.id("app")
	}
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	s.apps[app.ID] = app
	return nil
}

func (r *applicationRepo) FindByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*domain.Application, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *applicationRepo) GetByID(ctx context.Context, id, tenantID string) (*domain.Application, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.apps[id]; ok && a.TenantID == tenantID {
		// Return a copy so callers see a snapshot, as a real database
		// query would; later UpdateStage calls must not mutate it.
		snapshot := *a
		return &snapshot, nil
	}
	return nil, domain.ErrNotFound
}

func (r *applicationRepo) UpdateStage(ctx context.Context, id, tenantID string, stage domain.Stage) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.apps[id]; ok && a.TenantID == tenantID {
		a.Stage = stage
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *applicationRepo) UpdateNotes(ctx context.Context, id, tenantID string, notes *string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.apps[id]; ok && a.TenantID == tenantID {
		a.Notes = notes
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *applicationRepo) withRefs(a *domain.Application) *domain.ApplicationWithRefs {
	s := (*Store)(r)
	row := &domain.ApplicationWithRefs{Application: *a}
	if c, ok := s.cands[a.CandidateID]; ok {
		row.CandidateName = c.FullName
		row.CandidateEmail = c.Email
	}
	if j, ok := s.jobs[a.JobID]; ok {
		row.JobTitle = j.Title
	}
	return row
}

func (r *applicationRepo) ListByTenant(ctx context.Context, tenantID string, filter domain.ApplicationFilter) ([]*domain.ApplicationWithRefs, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ApplicationWithRefs
	for _, a := range s.apps {
		if a.TenantID != tenantID {
			continue
		}
		if filter.JobID != "" && a.JobID != filter.JobID {
			continue
		}
		if filter.Stage != "" && a.Stage != filter.Stage {
			continue
		}
		if filter.MinScore > 0 && a.Score < filter.MinScore {
			continue
		}
		out = append(out, r.withRefs(a))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, tenantID, candidateID string) ([]*domain.ApplicationWithRefs, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ApplicationWithRefs
	for _, a := range s.apps {
		if a.TenantID == tenantID && a.CandidateID == candidateID {
			out = append(out, r.withRefs(a))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *applicationRepo) CreateAnswers(ctx context.Context, answers []*domain.Answer) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ans := range answers {
		if ans.ID == "" {
			ans.ID = s.id("ans")
		}
		s.answers[ans.ApplicationID] = append(s.answers[ans.ApplicationID], ans)
	}
	return nil
}

func (r *applicationRepo) ListAnswers(ctx context.Context, applicationID string) ([]*domain.Answer, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[applicationID], nil
}

func (r *applicationRepo) CountOpen(ctx context.Context) (int, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, a := range s.apps {
		switch a.Stage {
		case domain.StageHired, domain.StageRejected, domain.StageDropped:
		default:
			count++
		}
	}
	return count, nil
}

type slotRepo Store

func (r *slotRepo) Create(ctx context.Context, slot *domain.InterviewSlot) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == "" {
		slot.ID = s.id("slot")
	}
	slot.CreatedAt = time.Now()
	s.slots[slot.ID] = slot
	return nil
}

func (r *slotRepo) ListByApplication(ctx context.Context, applicationID string) ([]*domain.InterviewSlot, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.InterviewSlot
	for _, slot := range s.slots {
		if slot.ApplicationID == applicationID {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *slotRepo) DeleteExpiredUnbooked(ctx context.Context, cutoff time.Time) (int, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, slot := range s.slots {
		if slot.Status != domain.SlotBooked && slot.StartsAt.Before(cutoff) {
			delete(s.slots, id)
			count++
		}
	}
	return count, nil
}
