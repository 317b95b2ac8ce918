package failures

import "time"

// Phase names the pipeline step that failed.
type Phase string

const (
	PhaseModel   Phase = "model"
	PhaseParse   Phase = "parse"
	PhaseStorage Phase = "storage"
)

// Failure represents a persisted verification failure entry
type Failure struct {
	ID             int64     `json:"id"`
	VerificationID string    `json:"verification_id"`
	Provider       string    `json:"provider,omitempty"`
	Phase          Phase     `json:"phase"`
	Message        string    `json:"message"`
	DetailsJSON    string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt      time.Time `json:"created_at"`
}
