package test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/hireloop/internal/events"
	"github.com/yourorg/hireloop/internal/handler"
	"github.com/yourorg/hireloop/internal/identity"
	"github.com/yourorg/hireloop/internal/sanitize"
	"github.com/yourorg/hireloop/internal/scoring"
	"github.com/yourorg/hireloop/internal/security"
	"github.com/yourorg/hireloop/internal/security/audit"
	"github.com/yourorg/hireloop/internal/security/auth"
	"github.com/yourorg/hireloop/internal/security/middleware"
	"github.com/yourorg/hireloop/internal/service"
	"github.com/yourorg/hireloop/internal/storetest"
	"github.com/yourorg/hireloop/pkg/cache"
)

// TestServerHelper boots the full router on an in-memory store so the suite
// runs without postgres or redis.
type TestServerHelper struct {
	Server *httptest.Server
	Store  *storetest.Store
	Tokens *auth.TokenManager
	Logger *slog.Logger
}

type noDirectory struct{}

func (noDirectory) Organization(ctx context.Context, orgID string) (*identity.Organization, error) {
	return nil, errors.New("no directory in tests")
}

func (noDirectory) User(ctx context.Context, userID string) (*identity.Profile, error) {
	return nil, errors.New("no directory in tests")
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	store := storetest.New()
	sanitizer := sanitize.New()
	hub := events.NewHub(logger)

	apps := service.NewApplicationService(store, scoring.NewEngine(), sanitizer, hub, logger)
	jobs := service.NewJobService(store, cache.NewMemory(), sanitizer, logger)
	tenants := service.NewTenantService(store, noDirectory{}, logger)

	tokens := auth.NewTokenManager("integration-secret", "hireloop")
	sessions := auth.NewSessionManager("integration-session", time.Hour, false)
	auditLog := audit.NewLogger(logger)

	router := handler.NewRouter(handler.RouterDeps{
		Jobs:         handler.NewJobHandler(jobs, store.Tenants(), auditLog, logger),
		Apply:        handler.NewApplyHandler(apps, sessions, logger),
		Applications: handler.NewApplicationHandler(apps, auditLog, logger),
		Portal:       handler.NewPortalHandler(apps, sessions, logger),
		Events:       handler.NewEventsHandler(hub, tokens, tenants, nil, logger),
		Health:       handler.NewHealthHandler(nil, logger),

		Authz:       security.NewAuthorizationService(logger),
		StaffAuth:   middleware.StaffAuth(tokens, tenants, logger),
		PortalLimit: func(next http.Handler) http.Handler { return next },
		Audit:       middleware.Audit(auditLog),

		PipelineStream: true,
		Logger:         logger,
	})

	server := httptest.NewServer(router)

	return &TestServerHelper{
		Server: server,
		Store:  store,
		Tokens: tokens,
		Logger: logger,
	}
}

func (h *TestServerHelper) Close() {
	h.Server.Close()
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// StaffToken mints a staff bearer token for the given org and role.
func (h *TestServerHelper) StaffToken(t *testing.T, orgID, role string) string {
	t.Helper()
	token, err := h.Tokens.GenerateToken("ext_staff", orgID, role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return token
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertContentType helper function
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, expected) {
		t.Errorf("Expected Content-Type %s, got %s", expected, ct)
	}
}
