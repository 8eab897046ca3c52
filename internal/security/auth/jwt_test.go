package auth

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaffTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "hireloop")

	token, err := tm.GenerateToken("ext_1", "org_1", "org:admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if claims.Subject != "ext_1" || claims.OrgID != "org_1" || claims.OrgRole != "org:admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestStaffTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", "hireloop")
	token, err := tm.GenerateToken("ext_1", "org_1", "org:member", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	other := NewTokenManager("secret-b", "hireloop")
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestStaffTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "hireloop")
	token, err := tm.GenerateToken("ext_1", "org_1", "org:member", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, err := tm.ValidateToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestGenerateTokenRequiresSubjectAndOrg(t *testing.T) {
	tm := NewTokenManager("test-secret", "")
	if _, err := tm.GenerateToken("", "org_1", "org:member", time.Hour); err == nil {
		t.Error("expected error for missing subject")
	}
	if _, err := tm.GenerateToken("ext_1", "", "org:member", time.Hour); err == nil {
		t.Error("expected error for missing org")
	}
}

func TestExtractToken(t *testing.T) {
	if _, err := ExtractToken("Bearer abc"); err != nil {
		t.Errorf("valid header rejected: %v", err)
	}
	for _, header := range []string{"", "abc", "Basic abc", "Bearer a b"} {
		if _, err := ExtractToken(header); err == nil {
			t.Errorf("header %q should be rejected", header)
		}
	}
}

func TestCandidateSessionRoundTrip(t *testing.T) {
	sm := NewSessionManager("session-secret", 30*24*time.Hour, false)

	token, err := sm.Issue("tenant-1", "cand-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	session, err := sm.Validate(token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if session.TenantID != "tenant-1" || session.CandidateID != "cand-1" {
		t.Errorf("session = %+v", session)
	}
}

func TestCandidateSessionCookie(t *testing.T) {
	sm := NewSessionManager("session-secret", 30*24*time.Hour, true)

	cookie := sm.Cookie("tok")
	if cookie.Name != SessionCookieName || !cookie.HttpOnly || !cookie.Secure {
		t.Errorf("cookie = %+v", cookie)
	}
	if cookie.MaxAge != int((30 * 24 * time.Hour).Seconds()) {
		t.Errorf("MaxAge = %d", cookie.MaxAge)
	}

	clear := sm.ClearCookie()
	if clear.MaxAge != -1 {
		t.Errorf("ClearCookie MaxAge = %d, want -1", clear.MaxAge)
	}
}

func TestSessionFromRequest(t *testing.T) {
	sm := NewSessionManager("session-secret", time.Hour, false)
	token, _ := sm.Issue("tenant-1", "cand-1")

	r := httptest.NewRequest("GET", "/api/portal/my-applications", nil)
	r.AddCookie(sm.Cookie(token))

	session, err := sm.SessionFromRequest(r)
	if err != nil {
		t.Fatalf("SessionFromRequest error: %v", err)
	}
	if session.CandidateID != "cand-1" {
		t.Errorf("CandidateID = %q", session.CandidateID)
	}

	bare := httptest.NewRequest("GET", "/", nil)
	if _, err := sm.SessionFromRequest(bare); err == nil {
		t.Error("expected error without cookie")
	}
}
