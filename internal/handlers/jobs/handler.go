package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/services/job"
	"gitlab.com/docforge.net/internal/handlers/response"
	"gitlab.com/docforge.net/internal/static/errs"
)

// JobHandler handles job history requests
type JobHandler struct {
	jobService job.IJobService
	logger     primary.Logger
}

var _ job.IJobService = &job.JobService{}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService job.IJobService, logger primary.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// RegisterRoutes registers the API routes for JobHandler
func (h *JobHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/jobs", h.GetRecentJobs).Methods("GET")
	router.HandleFunc("/api/jobs/{jobId}", h.GetJob).Methods("GET")
	router.HandleFunc("/api/jobs/{jobId}/artifact", h.GetArtifact).Methods("GET")
}

// GetRecentJobs lists the latest jobs, newest first
func (h *JobHandler) GetRecentJobs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	jobs, err := h.jobService.GetRecentJobs(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list jobs", "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	resp := JobListResponse{Jobs: make([]JobResponse, 0, len(jobs))}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, newJobResponse(j))
	}
	response.WriteSuccess(w, resp)
}

// GetJob handles job retrieval requests
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobID(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(r.Context(), jobID)
	if errors.Is(err, errs.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get job", "jobId", jobID, "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	response.WriteSuccess(w, newJobResponse(job))
}

// GetArtifact sends the cached PDF of a successful job
func (h *JobHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobID(w, r)
	if !ok {
		return
	}

	artifact, err := h.jobService.GetArtifact(r.Context(), jobID)
	if errors.Is(err, errs.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "Artifact not found or expired")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get artifact", "jobId", jobID, "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to get artifact")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+jobID.String()+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}

func (h *JobHandler) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	jobIDStr := mux.Vars(r)["jobId"]
	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		h.logger.Debug("Invalid job ID", "id", jobIDStr)
		response.Error(w, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, false
	}
	return jobID, true
}
