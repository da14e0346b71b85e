package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aijobs-utils/internal/config"
	"aijobs-utils/pkg/models"
)

// PendingStore holds captured submissions between form completion and
// payment confirmation. Entries expire after the configured TTL; an expired
// entry means the buyer never paid and the submission is discarded.
type PendingStore struct {
	client *redis.Client
	config *config.Config
}

// PendingSubmission is the stored shape of a captured submission
type PendingSubmission struct {
	PaymentSessionID string                     `json:"payment_session_id"`
	Payload          *models.ExtractedJobRecord `json:"payload"`
	CapturedAt       time.Time                  `json:"captured_at"`
}

// NewPendingStore creates a Redis-backed pending submission store
func NewPendingStore(cfg *config.Config) *PendingStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &PendingStore{
		client: redis.NewClient(opts),
		config: cfg,
	}
}

// Ping tests the Redis connection
func (p *PendingStore) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (p *PendingStore) Close() error {
	return p.client.Close()
}

// Capture stores a submission under its payment session id. Re-capturing the
// same session overwrites the previous payload and restarts the TTL.
func (p *PendingStore) Capture(ctx context.Context, sessionID string, payload *models.ExtractedJobRecord) error {
	entry := PendingSubmission{
		PaymentSessionID: sessionID,
		Payload:          payload,
		CapturedAt:       time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal pending submission: %w", err)
	}

	if err := p.client.Set(ctx, p.key(sessionID), data, p.config.Redis.PendingTTL).Err(); err != nil {
		return fmt.Errorf("failed to store pending submission: %w", err)
	}
	return nil
}

// Get returns the captured submission for a session, or a not-found error
// when the session was never captured or has expired.
func (p *PendingStore) Get(ctx context.Context, sessionID string) (*PendingSubmission, error) {
	data, err := p.client.Get(ctx, p.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, NewPendingNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to read pending submission: %w", err)
	}

	var entry PendingSubmission
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending submission: %w", err)
	}
	return &entry, nil
}

// Delete removes a captured submission once it has been committed
func (p *PendingStore) Delete(ctx context.Context, sessionID string) error {
	return p.client.Del(ctx, p.key(sessionID)).Err()
}

func (p *PendingStore) key(sessionID string) string {
	return fmt.Sprintf("pending:payment:%s", sessionID)
}
