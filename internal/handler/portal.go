package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/security/auth"
	"github.com/yourorg/hireloop/internal/service"
)

// PortalHandler serves the candidate-facing session endpoints: listing own
// applications, recovering a session by email and logging out.
type PortalHandler struct {
	applications *service.ApplicationService
	sessions     *auth.SessionManager
	logger       *slog.Logger
}

// NewPortalHandler creates a portal handler.
func NewPortalHandler(applications *service.ApplicationService, sessions *auth.SessionManager, logger *slog.Logger) *PortalHandler {
	return &PortalHandler{applications: applications, sessions: sessions, logger: logger}
}

type portalApplicationResponse struct {
	ID        string `json:"id"`
	JobTitle  string `json:"jobTitle"`
	Stage     string `json:"stage"`
	CreatedAt string `json:"createdAt"`
}

// MyApplications handles GET /api/portal/my-applications using the session
// cookie. Score and notes are staff-only and never appear here.
func (h *PortalHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.SessionFromRequest(r)
	if err != nil {
		writeError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	apps, err := h.applications.PortalApplications(r.Context(), session.TenantID, session.CandidateID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]portalApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, portalApplicationResponse{
			ID:        a.ID,
			JobTitle:  a.JobTitle,
			Stage:     string(a.Stage),
			CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": out})
}

type recoverRequest struct {
	Email string `json:"email"`
}

// Recover handles POST /api/portal/recover: looks the email up across
// tenants and reissues the session cookie for the most recent candidate
// record. The response is the same whether or not the email is known, so
// the endpoint cannot be used to probe for candidates.
func (h *PortalHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	candidate, err := h.applications.LookupCandidateByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
		writeError(w, h.logger, err)
		return
	}

	if token, err := h.sessions.Issue(candidate.TenantID, candidate.ID); err == nil {
		http.SetCookie(w, h.sessions.Cookie(token))
	} else {
		h.logger.Error("failed to issue candidate session", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout handles POST /api/portal/logout by expiring the session cookie.
func (h *PortalHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.ClearCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
