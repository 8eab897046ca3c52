package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/events"
	"github.com/yourorg/hireloop/internal/security"
	"github.com/yourorg/hireloop/internal/service"
)

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/pipeline" + query
}

func TestPipelineStreamRequiresToken(t *testing.T) {
	env := newTestEnv(t, true)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil {
		t.Fatal("expected the handshake to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("handshake response = %+v, want 401", resp)
	}
}

func TestPipelineStreamDeliversTransitions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	tenant := env.store.AddTenant("Acme", "org_1")
	job := env.store.AddJob(tenant.ID, "Backend Engineer")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	result, err := env.apps.Submit(ctx, job.ID, service.CandidateInput{
		FullName: "Alice",
		Email:    "alice@example.com",
	}, nil, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	token := env.staffToken(t, "org_1", security.RoleOrgAdmin)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	// The subscription registers after the upgrade; wait for it before
	// publishing.
	deadline := time.Now().Add(2 * time.Second)
	for env.hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := env.apps.UpdateStage(ctx, result.ApplicationID, tenant.ID, domain.StageScreened); err != nil {
		t.Fatalf("UpdateStage error: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage error: %v", err)
	}
	var event events.StageEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("unmarshal event %q: %v", payload, err)
	}
	if event.ApplicationID != result.ApplicationID {
		t.Errorf("ApplicationID = %q, want %q", event.ApplicationID, result.ApplicationID)
	}
	if event.From != "NEW" || event.To != "SCREENED" {
		t.Errorf("transition = %s->%s", event.From, event.To)
	}
}
