package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/security/audit"
	"github.com/yourorg/hireloop/internal/security/middleware"
	"github.com/yourorg/hireloop/internal/service"
)

// ApplicationHandler serves the staff pipeline endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
	auditLog     *audit.Logger
	logger       *slog.Logger
}

// NewApplicationHandler creates an application handler.
func NewApplicationHandler(applications *service.ApplicationService, auditLog *audit.Logger, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, auditLog: auditLog, logger: logger}
}

type applicationRow struct {
	ID             string  `json:"id"`
	JobID          string  `json:"jobId"`
	JobTitle       string  `json:"jobTitle"`
	CandidateName  string  `json:"candidateName"`
	CandidateEmail *string `json:"candidateEmail"`
	Stage          string  `json:"stage"`
	Score          int     `json:"score"`
	CreatedAt      string  `json:"createdAt"`
}

func toApplicationRow(a *domain.ApplicationWithRefs) applicationRow {
	return applicationRow{
		ID:             a.ID,
		JobID:          a.JobID,
		JobTitle:       a.JobTitle,
		CandidateName:  a.CandidateName,
		CandidateEmail: a.CandidateEmail,
		Stage:          string(a.Stage),
		Score:          a.Score,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /api/staff/applications with optional jobId, stage and
// minScore filters.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	filter := domain.ApplicationFilter{
		JobID: r.URL.Query().Get("jobId"),
		Stage: domain.Stage(r.URL.Query().Get("stage")),
	}
	if raw := r.URL.Query().Get("minScore"); raw != "" {
		minScore, err := strconv.Atoi(raw)
		if err != nil || minScore < 0 {
			writeError(w, h.logger, domain.NewValidationError("minScore", "minScore must be a non-negative integer"))
			return
		}
		filter.MinScore = minScore
	}

	apps, err := h.applications.List(r.Context(), p.Tenant.ID, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]applicationRow, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationRow(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": out})
}

type answerResponse struct {
	QuestionKey string `json:"questionKey"`
	AnswerText  string `json:"answerText"`
}

type slotResponse struct {
	ID       string `json:"id"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Status   string `json:"status"`
}

// Get handles GET /api/staff/applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	detail, err := h.applications.Get(r.Context(), chi.URLParam(r, "id"), p.Tenant.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	answers := make([]answerResponse, 0, len(detail.Answers))
	for _, a := range detail.Answers {
		answers = append(answers, answerResponse{QuestionKey: a.QuestionKey, AnswerText: a.AnswerText})
	}
	slots := make([]slotResponse, 0, len(detail.Slots))
	for _, s := range detail.Slots {
		slots = append(slots, slotResponse{
			ID:       s.ID,
			StartsAt: s.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:   s.EndsAt.UTC().Format(time.RFC3339),
			Status:   s.Status,
		})
	}

	app := detail.Application
	writeJSON(w, http.StatusOK, map[string]any{
		"application": map[string]any{
			"id":          app.ID,
			"jobId":       app.JobID,
			"candidateId": app.CandidateID,
			"stage":       string(app.Stage),
			"score":       app.Score,
			"notes":       app.Notes,
			"createdAt":   app.CreatedAt.UTC().Format(time.RFC3339),
			"updatedAt":   app.UpdatedAt.UTC().Format(time.RFC3339),
		},
		"answers": answers,
		"slots":   slots,
	})
}

type stageRequest struct {
	Stage string `json:"stage"`
}

// UpdateStage handles PATCH /api/staff/applications/{id}/stage. An id the
// tenant does not own is a silent no-op: same 200, nothing changed.
func (h *ApplicationHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var req stageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	applicationID := chi.URLParam(r, "id")
	if err := h.applications.UpdateStage(r.Context(), applicationID, p.Tenant.ID, domain.Stage(req.Stage)); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.auditLog.LogStageChange(r.Context(), p.Tenant.ID, p.User.ID, applicationID, "", req.Stage)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes handles PUT /api/staff/applications/{id}/notes. Blank notes
// clear the field.
func (h *ApplicationHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	applicationID := chi.URLParam(r, "id")
	if err := h.applications.UpdateNotes(r.Context(), applicationID, p.Tenant.ID, req.Notes); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.auditLog.LogNotesUpdate(r.Context(), p.Tenant.ID, p.User.ID, applicationID)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type slotRequest struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// CreateSlot handles POST /api/staff/applications/{id}/slots.
func (h *ApplicationHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	applicationID := chi.URLParam(r, "id")
	slot, err := h.applications.CreateInterviewSlot(r.Context(), applicationID, p.Tenant.ID, req.StartsAt, req.EndsAt)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.auditLog.LogSlotCreate(r.Context(), p.Tenant.ID, p.User.ID, applicationID, slot.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"slot": slotResponse{
		ID:       slot.ID,
		StartsAt: slot.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:   slot.EndsAt.UTC().Format(time.RFC3339),
		Status:   slot.Status,
	}})
}
