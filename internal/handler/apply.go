package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/hireloop/internal/security/auth"
	"github.com/yourorg/hireloop/internal/service"
)

// ApplyHandler serves POST /api/jobs/{id}/apply.
type ApplyHandler struct {
	applications *service.ApplicationService
	sessions     *auth.SessionManager
	logger       *slog.Logger
}

// NewApplyHandler creates an apply handler.
func NewApplyHandler(applications *service.ApplicationService, sessions *auth.SessionManager, logger *slog.Logger) *ApplyHandler {
	return &ApplyHandler{applications: applications, sessions: sessions, logger: logger}
}

type applyRequest struct {
	FullName string            `json:"fullName"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Location string            `json:"location"`
	Answers  map[string]string `json:"answers"`
	// ExternalUserID links the submission to a signed-in portal identity
	// when present. Optional.
	ExternalUserID string `json:"externalUserId"`
}

// Apply submits an application. A duplicate submission is a 200 with
// alreadyApplied=true, not an error. On success a candidate session cookie
// is set so the applicant can track their applications.
func (h *ApplyHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.applications.Submit(r.Context(), chi.URLParam(r, "id"), service.CandidateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}, req.Answers, req.ExternalUserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if token, err := h.sessions.Issue(result.TenantID, result.CandidateID); err == nil {
		http.SetCookie(w, h.sessions.Cookie(token))
	} else {
		h.logger.Error("failed to issue candidate session", slog.String("error", err.Error()))
	}

	status := http.StatusCreated
	if result.AlreadyApplied {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"applicationId":  result.ApplicationID,
		"score":          result.Score,
		"alreadyApplied": result.AlreadyApplied,
	})
}
