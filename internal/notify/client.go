package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
	"aijobs-utils/internal/store/model"
)

// Client posts commit confirmations to the configured downstream endpoint.
// Delivery is best-effort with bounded retries; the commit flow never waits
// on or fails because of it.
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     types.Logger
}

type commitNotification struct {
	JobID       string    `json:"job_id"`
	PaymentID   string    `json:"payment_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	CompanyID   string    `json:"company_id,omitempty"`
	CommittedAt time.Time `json:"committed_at"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Notify.Timeout,
		},
		logger: logging.GetGlobalLogger(),
	}
}

// JobCommitted delivers the confirmation for a freshly committed job
func (c *Client) JobCommitted(ctx context.Context, job *model.Job) error {
	if !c.config.Notify.Enabled || c.config.Notify.Endpoint == "" {
		return nil
	}

	notification := commitNotification{
		JobID:       job.ID.String(),
		PaymentID:   job.PaymentID,
		Title:       job.Title,
		Category:    job.Category,
		CommittedAt: job.CreatedAt,
	}
	if job.CompanyID != nil {
		notification.CompanyID = job.CompanyID.String()
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	maxRetries := c.config.Notify.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			c.logger.Debug("Commit notification delivered", map[string]interface{}{
				"job_id":  notification.JobID,
				"attempt": attempt,
			})
			return nil
		}

		c.logger.Warn("Commit notification attempt failed", map[string]interface{}{
			"job_id":  notification.JobID,
			"attempt": attempt,
			"error":   lastErr.Error(),
		})
	}

	return fmt.Errorf("notification failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Notify.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
