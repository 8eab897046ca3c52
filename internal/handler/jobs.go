package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/security/audit"
	"github.com/yourorg/hireloop/internal/security/middleware"
	"github.com/yourorg/hireloop/internal/service"
)

type jobResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	IsRemote    bool    `json:"isRemote"`
	CreatedAt   string  `json:"createdAt"`
}

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		IsRemote:    j.IsRemote,
		CreatedAt:   j.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// JobHandler serves the public job board and the staff posting endpoints.
type JobHandler struct {
	jobs     *service.JobService
	tenants  domain.TenantRepository
	auditLog *audit.Logger
	logger   *slog.Logger
}

// NewJobHandler creates a job handler.
func NewJobHandler(jobs *service.JobService, tenants domain.TenantRepository, auditLog *audit.Logger, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, tenants: tenants, auditLog: auditLog, logger: logger}
}

// ListPublic handles GET /api/jobs. The board shows one tenant's postings:
// ?tenant= selects it explicitly, otherwise the first-created tenant is the
// default board.
func (h *JobHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant")
	if tenantID == "" {
		tenant, err := h.tenants.FirstCreated(r.Context())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusOK, map[string]any{"jobs": []jobResponse{}})
				return
			}
			writeError(w, h.logger, err)
			return
		}
		tenantID = tenant.ID
	}

	jobs, err := h.jobs.ListOpen(r.Context(), tenantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j))
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": out})
}

// GetPublic handles GET /api/jobs/{id}: the posting plus the screening
// question set for the apply form.
func (h *JobHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	detail, err := h.jobs.GetForApply(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job":       toJobResponse(detail.Job),
		"company":   detail.TenantName,
		"questions": detail.Questions,
	})
}

type jobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	IsRemote    bool   `json:"isRemote"`
}

// ListStaff handles GET /api/staff/jobs.
func (h *JobHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	jobs, err := h.jobs.ListByTenant(r.Context(), p.Tenant.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j))
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": out})
}

// Create handles POST /api/staff/jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), p.Tenant.ID, p.User.ID, service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		IsRemote:    req.IsRemote,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.auditLog.LogJobChange(r.Context(), p.Tenant.ID, p.User.ID, job.ID, "job_create")
	writeJSON(w, http.StatusCreated, map[string]any{"job": toJobResponse(job)})
}

// Update handles PUT /api/staff/jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	job, err := h.jobs.Update(r.Context(), p.Tenant.ID, chi.URLParam(r, "id"), service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		IsRemote:    req.IsRemote,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.auditLog.LogJobChange(r.Context(), p.Tenant.ID, p.User.ID, job.ID, "job_update")
	writeJSON(w, http.StatusOK, map[string]any{"job": toJobResponse(job)})
}
