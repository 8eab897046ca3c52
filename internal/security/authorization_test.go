package security

import "testing"

func TestHasCapability(t *testing.T) {
	as := NewAuthorizationService(nil)

	tests := []struct {
		name string
		role string
		cap  Capability
		want bool
	}{
		{"admin can manage team", RoleOrgAdmin, CapManageTeam, true},
		{"admin can manage pipeline", RoleOrgAdmin, CapManagePipeline, true},
		{"member can view pipeline", RoleOrgMember, CapViewPipeline, true},
		{"member can manage jobs", RoleOrgMember, CapManageJobs, true},
		{"member cannot manage team", RoleOrgMember, CapManageTeam, false},
		{"unknown role has nothing", "org:guest", CapViewPipeline, false},
		{"empty role has nothing", "", CapViewPipeline, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := as.HasCapability(tt.role, tt.cap); got != tt.want {
				t.Errorf("HasCapability(%q, %q) = %v, want %v", tt.role, tt.cap, got, tt.want)
			}
		})
	}
}

func TestValidateCapability(t *testing.T) {
	as := NewAuthorizationService(nil)

	if err := as.ValidateCapability(RoleOrgAdmin, CapManageJobs); err != nil {
		t.Errorf("expected admin to manage jobs, got %v", err)
	}
	if err := as.ValidateCapability(RoleOrgMember, CapManageTeam); err == nil {
		t.Error("expected member manage_team to be denied")
	}
}

func TestValidateTenantAccess(t *testing.T) {
	as := NewAuthorizationService(nil)

	if err := as.ValidateTenantAccess("t1", "t1"); err != nil {
		t.Errorf("expected same-tenant access to pass, got %v", err)
	}
	if err := as.ValidateTenantAccess("t1", "t2"); err == nil {
		t.Error("expected cross-tenant access to fail")
	}
}
