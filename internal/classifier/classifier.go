package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
	"aijobs-utils/pkg/models"
)

// defaultRationale fills in when the model returns an empty rationale. The
// placeholder ends in terminal punctuation so it passes its own validation.
const defaultRationale = "Assigned based on the role's overall description."

// ModelClient is the slice of the LLM surface the classifier needs.
type ModelClient interface {
	ClassifyJob(ctx context.Context, input models.ClassificationInput) (*models.ClassificationRaw, error)
}

// Classifier assigns taxonomy categories to individual jobs. Alias and
// validation behavior is configuration, not code, so the taxonomy can evolve
// without touching the retry loop.
type Classifier struct {
	client  ModelClient
	config  *config.Config
	aliases map[string]string
	logger  types.Logger
}

// Outcome is the per-item result of a classification: the accepted result
// plus every validation finding made on the way there.
type Outcome struct {
	JobID  uuid.UUID
	Result models.ClassificationResult
	Issues []models.ValidationIssue
}

// HasError reports whether any finding reached error severity.
func (o *Outcome) HasError() bool {
	for _, issue := range o.Issues {
		if issue.Severity == models.SeverityError {
			return true
		}
	}
	return false
}

func New(client ModelClient, cfg *config.Config, aliases map[string]string) *Classifier {
	if aliases == nil {
		aliases = models.DefaultCategoryAliases()
	}
	return &Classifier{
		client:  client,
		config:  cfg,
		aliases: aliases,
		logger:  logging.GetGlobalLogger(),
	}
}

// Classify runs one job through the model with bounded retries. Retries fire
// only on unparseable or visibly truncated output; provider transport errors
// are returned as-is. When every attempt yields a cut-off rationale the last
// result is accepted and the defect recorded as an error-severity issue.
func (c *Classifier) Classify(ctx context.Context, jobID uuid.UUID, input models.ClassificationInput) (*Outcome, error) {
	maxAttempts := c.config.Classifier.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var result *models.ClassificationResult
	var lastErr error
	truncatedAccept := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.Classifier.RetryBackoff):
			}
		}

		raw, err := c.client.ClassifyJob(ctx, input)
		if err != nil {
			return nil, err
		}

		parsed, err := Parse(raw.Text)
		if err != nil {
			lastErr = err
			c.logger.Warn("Classification output unparseable, retrying", map[string]interface{}{
				"job_id":  jobID.String(),
				"attempt": attempt,
			})
			continue
		}

		if raw.Truncated || !endsWithTerminalPunctuation(parsed.Rationale) {
			result = parsed
			truncatedAccept = true
			c.logger.Warn("Classification rationale looks cut off, retrying", map[string]interface{}{
				"job_id":  jobID.String(),
				"attempt": attempt,
			})
			continue
		}

		result = parsed
		truncatedAccept = false
		break
	}

	if result == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("classification produced no result for job %s", jobID)
	}

	outcome := &Outcome{JobID: jobID, Result: *result}
	c.validate(outcome, truncatedAccept)
	return outcome, nil
}

// validate applies alias correction then grades every field, defaulting
// rather than failing. Findings accumulate on the outcome for the run report.
func (c *Classifier) validate(outcome *Outcome, truncatedAccept bool) {
	result := &outcome.Result

	result.Category = strings.ToLower(strings.TrimSpace(result.Category))
	if mapped, ok := c.aliases[result.Category]; ok {
		result.Category = mapped
	}
	if !models.IsValidCategory(result.Category) {
		outcome.record("category outside taxonomy", result.Category, models.SeverityError)
		result.Category = models.DefaultCategory
	}

	if !validConfidence(result.Confidence) {
		outcome.record("unknown confidence value", string(result.Confidence), models.SeverityWarning)
		result.Confidence = models.DefaultConfidence
	}

	result.Rationale = strings.TrimSpace(result.Rationale)
	if result.Rationale == "" {
		outcome.record("empty rationale", "", models.SeverityWarning)
		result.Rationale = defaultRationale
	} else {
		if len(result.Rationale) < c.config.Classifier.MinRationale {
			outcome.record("rationale shorter than expected", result.Rationale, models.SeverityWarning)
		}
		if truncatedAccept || !endsWithTerminalPunctuation(result.Rationale) {
			outcome.record("rationale ends mid-sentence", result.Rationale, models.SeverityError)
		}
	}
}

func (o *Outcome) record(issue, value string, severity models.IssueSeverity) {
	o.Issues = append(o.Issues, models.ValidationIssue{
		JobID:    o.JobID,
		Issue:    issue,
		Value:    value,
		Severity: severity,
	})
}

func validConfidence(confidence models.Confidence) bool {
	for _, valid := range models.ValidConfidences {
		if confidence == valid {
			return true
		}
	}
	return false
}

func endsWithTerminalPunctuation(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
