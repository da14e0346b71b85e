package models

import "github.com/google/uuid"

// Confidence expresses how sure the classifier is about an assignment
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DefaultConfidence is substituted when the model emits an unknown value
const DefaultConfidence = ConfidenceMedium

// ValidConfidences is the closed set accepted by validation
var ValidConfidences = []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

// ClassificationResult is the validated output of a single category
// classification call.
type ClassificationResult struct {
	Category   string     `json:"category"`
	Rationale  string     `json:"rationale"`
	Confidence Confidence `json:"confidence"`
}

// ClassificationInput carries everything the classifier model sees for one job
type ClassificationInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Requirements    string `json:"requirements,omitempty"`
	CurrentCategory string `json:"current_category,omitempty"`
}

// ClassificationRaw is the model's output before any parsing. Truncated is
// set when the provider reports the response was cut off by a length limit.
type ClassificationRaw struct {
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// IssueSeverity grades a validation finding
type IssueSeverity string

const (
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// ValidationIssue records a single field-level finding made while validating
// a classification. Issues are accumulated for the end-of-run report and are
// never persisted.
type ValidationIssue struct {
	JobID    uuid.UUID     `json:"job_id"`
	Issue    string        `json:"issue"`
	Value    string        `json:"value"`
	Severity IssueSeverity `json:"severity"`
}
