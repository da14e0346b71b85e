package llm

import (
	"context"

	"aijobs-utils/pkg/models"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// ExtractJobRecord turns normalized listing text into a validated record
	ExtractJobRecord(ctx context.Context, content *models.RawContent) (*models.ExtractedJobRecord, error)

	// ClassifyJob asks the cheaper model for a category assignment and
	// returns its raw, unparsed output. Parsing and validation live in the
	// classifier package because the output is not trusted to be well-formed.
	ClassifyJob(ctx context.Context, input models.ClassificationInput) (*models.ClassificationRaw, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
