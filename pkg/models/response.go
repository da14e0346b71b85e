package models

import "time"

// IngestResponse is returned from a successful URL ingestion
type IngestResponse struct {
	Success        bool                `json:"success"`
	Record         *ExtractedJobRecord `json:"record,omitempty"`
	Error          string              `json:"error,omitempty"`
	ProcessingTime time.Duration       `json:"processing_time"`
	Strategy       string              `json:"strategy_used,omitempty"`
	RequestID      string              `json:"request_id"`
}

// CommitResponse is returned from the payment webhook once the job record
// exists (freshly inserted or found via the idempotency check).
type CommitResponse struct {
	Success   bool   `json:"success"`
	JobID     string `json:"job_id,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id"`
}

// ErrorResponse is the common error envelope for API handlers
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}
