// Package security maps identity-provider org roles onto internal
// capabilities. Role strings are a boundary concern: everything past the
// middleware reasons in capabilities only.
package security

import (
	"fmt"
	"log/slog"
)

// Capability is one thing a staff member may do.
type Capability string

const (
	CapViewPipeline   Capability = "view_pipeline"
	CapManageJobs     Capability = "manage_jobs"
	CapManagePipeline Capability = "manage_pipeline"
	CapManageTeam     Capability = "manage_team"
)

// Provider org role strings as the identity provider sends them.
const (
	RoleOrgAdmin  = "org:admin"
	RoleOrgMember = "org:member"
)

// roleCapabilities maps provider roles to capability sets. Unknown roles map
// to nothing.
var roleCapabilities = map[string][]Capability{
	RoleOrgAdmin: {
		CapViewPipeline,
		CapManageJobs,
		CapManagePipeline,
		CapManageTeam,
	},
	RoleOrgMember: {
		CapViewPipeline,
		CapManageJobs,
		CapManagePipeline,
	},
}

// AuthorizationService resolves and checks capabilities.
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates an authorization service.
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{logger: logger}
}

// CapabilitiesForRole returns the capabilities a provider role grants.
func CapabilitiesForRole(role string) []Capability {
	return roleCapabilities[role]
}

// HasCapability reports whether a role grants a capability.
func (as *AuthorizationService) HasCapability(role string, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// ValidateCapability checks a capability and logs the denial if absent.
func (as *AuthorizationService) ValidateCapability(role string, cap Capability) error {
	if !as.HasCapability(role, cap) {
		as.logger.Warn("capability denied",
			slog.String("role", role),
			slog.String("capability", string(cap)),
		)
		return fmt.Errorf("capability denied: %s role cannot %s", role, cap)
	}
	return nil
}

// ValidateTenantAccess checks that a principal's tenant matches the
// requested tenant. Every staff query is already tenant-filtered in SQL;
// this is the request-boundary check.
func (as *AuthorizationService) ValidateTenantAccess(principalTenantID, requestedTenantID string) error {
	if principalTenantID != requestedTenantID {
		as.logger.Warn("tenant access denied",
			slog.String("principal_tenant", principalTenantID),
			slog.String("requested_tenant", requestedTenantID),
		)
		return fmt.Errorf("access denied: invalid tenant")
	}
	return nil
}
