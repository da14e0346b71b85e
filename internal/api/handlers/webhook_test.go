package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/internal/commit"
	"aijobs-utils/internal/config"
	"aijobs-utils/internal/store"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// fakeHold is an in-memory SubmissionHold
type fakeHold struct {
	entries map[string]*utils.PendingSubmission
}

func newFakeHold() *fakeHold {
	return &fakeHold{entries: make(map[string]*utils.PendingSubmission)}
}

func (h *fakeHold) Capture(_ context.Context, sessionID string, payload *models.ExtractedJobRecord) error {
	h.entries[sessionID] = &utils.PendingSubmission{PaymentSessionID: sessionID, Payload: payload}
	return nil
}

func (h *fakeHold) Get(_ context.Context, sessionID string) (*utils.PendingSubmission, error) {
	entry, ok := h.entries[sessionID]
	if !ok {
		return nil, utils.NewPendingNotFoundError(sessionID)
	}
	return entry, nil
}

func (h *fakeHold) Delete(_ context.Context, sessionID string) error {
	delete(h.entries, sessionID)
	return nil
}

func (h *fakeHold) Ping(_ context.Context) error { return nil }

func newWebhookCoordinator(t *testing.T) *commit.Coordinator {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = ":memory:"

	db, err := store.InitDB(cfg)
	require.NoError(t, err)
	s := store.NewStore(db)
	require.NoError(t, s.InitialMigration())
	t.Cleanup(func() { _ = s.Close() })

	return commit.NewCoordinator(s, commit.DefaultTranslationTables(), nil, nil)
}

func webhookPayload(title string) *models.ExtractedJobRecord {
	amount := 95000.0
	period := models.PayPeriodYear
	payType := models.PayTypeExact
	return &models.ExtractedJobRecord{
		JobTitle:          title,
		CompanyName:       "Acme",
		Category:          "machine-learning",
		JobTypes:          []models.JobType{models.JobTypeFullTime},
		PayType:           &payType,
		PayAmount:         &amount,
		PayPeriod:         &period,
		ApplicationMethod: models.ApplicationMethodLink,
	}
}

func postWebhook(t *testing.T, handler echo.HandlerFunc, event models.PaymentEvent) (*httptest.ResponseRecorder, models.CommitResponse) {
	t.Helper()

	body, err := json.Marshal(event)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))

	var response models.CommitResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	}
	return rec, response
}

func TestPaymentWebhookCommitsPendingSubmission(t *testing.T) {
	coordinator := newWebhookCoordinator(t)
	hold := newFakeHold()
	require.NoError(t, hold.Capture(context.Background(), "cs_hook", webhookPayload("ML Engineer")))

	handler := PaymentWebhookHandler(coordinator, hold)
	rec, response := postWebhook(t, handler, models.PaymentEvent{PaymentSessionID: "cs_hook"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, response.Success)
	assert.False(t, response.Duplicate)
	assert.NotEmpty(t, response.JobID)

	// The pending entry is cleared once the commit lands
	_, err := hold.Get(context.Background(), "cs_hook")
	assert.Error(t, err)
}

func TestPaymentWebhookPayloadlessRedelivery(t *testing.T) {
	coordinator := newWebhookCoordinator(t)
	hold := newFakeHold()
	require.NoError(t, hold.Capture(context.Background(), "cs_hook", webhookPayload("ML Engineer")))

	handler := PaymentWebhookHandler(coordinator, hold)
	_, first := postWebhook(t, handler, models.PaymentEvent{PaymentSessionID: "cs_hook"})

	// Redelivery arrives after the pending entry was deleted and carries no
	// inline payload; it must resolve to the committed job, not fail.
	rec, second := postWebhook(t, handler, models.PaymentEvent{PaymentSessionID: "cs_hook"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, second.Success)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.JobID, second.JobID)
}

func TestPaymentWebhookUnknownSessionWithoutPayload(t *testing.T) {
	coordinator := newWebhookCoordinator(t)
	handler := PaymentWebhookHandler(coordinator, newFakeHold())

	rec, _ := postWebhook(t, handler, models.PaymentEvent{PaymentSessionID: "cs_never_seen"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentWebhookInlinePayloadSkipsHold(t *testing.T) {
	coordinator := newWebhookCoordinator(t)
	handler := PaymentWebhookHandler(coordinator, newFakeHold())

	event := models.PaymentEvent{PaymentSessionID: "cs_inline", Payload: webhookPayload("Engineer")}
	rec, response := postWebhook(t, handler, event)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, response.Success)
	assert.False(t, response.Duplicate)
}
