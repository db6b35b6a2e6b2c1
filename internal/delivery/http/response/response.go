package response

import "time"

// RunStatusResponse is a DTO for the progress of the current harvest run.
type RunStatusResponse struct {
	Profile     string     `json:"profile"`
	Total       int        `json:"total_batches"`
	Finished    int        `json:"finished_batches"`
	Records     int        `json:"records"`
	CurrentSeed string     `json:"current_seed,omitempty"`
	LastStop    string     `json:"last_stop,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
