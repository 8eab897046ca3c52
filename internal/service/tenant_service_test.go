package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yourorg/hireloop/internal/identity"
)

type fakeDirectory struct {
	orgs  map[string]string // org id -> name
	users map[string]identity.Profile
	err   error
}

func (d *fakeDirectory) Organization(ctx context.Context, orgID string) (*identity.Organization, error) {
	if d.err != nil {
		return nil, d.err
	}
	name, ok := d.orgs[orgID]
	if !ok {
		return nil, errors.New("org not found")
	}
	return &identity.Organization{ID: orgID, Name: name}, nil
}

func (d *fakeDirectory) User(ctx context.Context, userID string) (*identity.Profile, error) {
	if d.err != nil {
		return nil, d.err
	}
	p, ok := d.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &p, nil
}

func TestResolveProvisionsTenantAndUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	dir := &fakeDirectory{
		orgs:  map[string]string{"org_1": "Acme Corporation"},
		users: map[string]identity.Profile{"ext_1": {ID: "ext_1", Email: "jane@acme.com", Name: "Jane Recruiter"}},
	}
	svc := NewTenantService(store, dir, nil)

	tenant, user, err := svc.Resolve(ctx, "org_1", "ext_1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if tenant.Name != "Acme Corporation" {
		t.Errorf("tenant Name = %q", tenant.Name)
	}
	if user.Email != "jane@acme.com" || user.Name != "Jane Recruiter" {
		t.Errorf("user = %+v", user)
	}
	if user.TenantID != tenant.ID {
		t.Error("user not bound to tenant")
	}

	// Second resolve reuses the rows.
	tenant2, user2, err := svc.Resolve(ctx, "org_1", "ext_1")
	if err != nil {
		t.Fatalf("second Resolve error: %v", err)
	}
	if tenant2.ID != tenant.ID || user2.ID != user.ID {
		t.Error("second resolve created duplicate rows")
	}
}

func TestResolveFallsBackWhenDirectoryDown(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	dir := &fakeDirectory{err: errors.New("provider down")}
	svc := NewTenantService(store, dir, nil)

	tenant, user, err := svc.Resolve(ctx, "org_9", "ext_9")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if tenant.Name != "My Organization" {
		t.Errorf("tenant Name = %q, want placeholder", tenant.Name)
	}
	if user.Email != "unknown@example.com" {
		t.Errorf("user Email = %q, want placeholder", user.Email)
	}
	if user.Name != "unknown" {
		t.Errorf("user Name = %q, want email local part", user.Name)
	}
}

func TestEnsureUserDerivesNameFromEmail(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	dir := &fakeDirectory{
		orgs:  map[string]string{"org_1": "Acme"},
		users: map[string]identity.Profile{"ext_1": {ID: "ext_1", Email: "sam@acme.com"}},
	}
	svc := NewTenantService(store, dir, nil)

	_, user, err := svc.Resolve(ctx, "org_1", "ext_1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if user.Name != "sam" {
		t.Errorf("user Name = %q, want derived from email", user.Name)
	}
}
