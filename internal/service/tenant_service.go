package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/identity"
)

// Directory is the subset of the identity-provider client the tenant
// service needs. Lookups are best-effort: a provider outage falls back to
// placeholder display data rather than blocking provisioning.
type Directory interface {
	Organization(ctx context.Context, orgID string) (*identity.Organization, error)
	User(ctx context.Context, userID string) (*identity.Profile, error)
}

// TenantService lazily provisions local tenant and staff rows for principals
// the identity provider vouches for. The provider owns membership; we only
// mirror ids and display data.
type TenantService struct {
	store     domain.Store
	directory Directory
	logger    *slog.Logger
}

// NewTenantService creates a tenant service.
func NewTenantService(store domain.Store, directory Directory, logger *slog.Logger) *TenantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantService{store: store, directory: directory, logger: logger}
}

// Resolve maps a verified principal (org id + external user id) to local
// tenant and user rows, creating either on first sight.
func (s *TenantService) Resolve(ctx context.Context, orgID, externalUserID string) (*domain.Tenant, *domain.User, error) {
	tenant, err := s.EnsureTenant(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.EnsureUser(ctx, tenant, externalUserID)
	if err != nil {
		return nil, nil, err
	}
	return tenant, user, nil
}

// EnsureTenant returns the tenant bound to a provider org, creating it on
// first sight with the org's display name.
func (s *TenantService) EnsureTenant(ctx context.Context, orgID string) (*domain.Tenant, error) {
	tenant, err := s.store.Tenants().GetByOrgID(ctx, orgID)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	name := "My Organization"
	if org, err := s.directory.Organization(ctx, orgID); err == nil && org.Name != "" {
		name = org.Name
	} else if err != nil {
		s.logger.Warn("org lookup failed, using placeholder name",
			slog.String("org_id", orgID),
			slog.String("error", err.Error()),
		)
	}

	tenant = &domain.Tenant{Name: name, OrgID: orgID}
	if err := s.store.Tenants().Create(ctx, tenant); err != nil {
		// Concurrent first requests race on the org_id unique index; the
		// loser re-reads the winner's row.
		if existing, gerr := s.store.Tenants().GetByOrgID(ctx, orgID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	s.logger.Info("tenant provisioned",
		slog.String("tenant_id", tenant.ID),
		slog.String("org_id", orgID),
	)
	return tenant, nil
}

// EnsureUser returns the staff user for an external identity, creating it on
// first sight with the provider profile's email and name.
func (s *TenantService) EnsureUser(ctx context.Context, tenant *domain.Tenant, externalUserID string) (*domain.User, error) {
	user, err := s.store.Users().GetByExternalID(ctx, externalUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	email := "unknown@example.com"
	name := ""
	if profile, err := s.directory.User(ctx, externalUserID); err == nil {
		if profile.Email != "" {
			email = profile.Email
		}
		name = profile.Name
	} else {
		s.logger.Warn("user lookup failed, using placeholder profile",
			slog.String("external_user_id", externalUserID),
			slog.String("error", err.Error()),
		)
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user = &domain.User{
		TenantID:       tenant.ID,
		ExternalUserID: externalUserID,
		Email:          email,
		Name:           name,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if existing, gerr := s.store.Users().GetByExternalID(ctx, externalUserID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	s.logger.Info("staff user provisioned",
		slog.String("user_id", user.ID),
		slog.String("tenant_id", tenant.ID),
	)
	return user, nil
}
