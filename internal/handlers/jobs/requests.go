package jobs

import (
	"encoding/json"

	"gitlab.com/docforge.net/internal/domain"
)

// JobResponse is a history record with its stored diagnostics inlined
type JobResponse struct {
	*domain.JobRecord
	Diagnostics json.RawMessage `json:"diagnostics,omitempty"`
}

// JobListResponse represents a page of recent jobs
type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

func newJobResponse(job *domain.JobRecord) JobResponse {
	resp := JobResponse{JobRecord: job}
	if len(job.Diagnostics) > 0 && json.Valid(job.Diagnostics) {
		resp.Diagnostics = job.Diagnostics
	}
	return resp
}
