package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"aijobs-utils/internal/logging"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// SubmissionHold is the slice of the pending-submission store the HTTP
// surface uses. Satisfied by utils.PendingStore.
type SubmissionHold interface {
	Capture(ctx context.Context, sessionID string, payload *models.ExtractedJobRecord) error
	Get(ctx context.Context, sessionID string) (*utils.PendingSubmission, error)
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

// SubmissionHandler captures a completed form payload against a payment
// session before payment happens. The webhook later commits it; uncollected
// submissions expire with the store's TTL.
func SubmissionHandler(pending SubmissionHold) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.SubmissionRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()
		if err := pending.Capture(ctx, req.PaymentSessionID, req.Payload); err != nil {
			logger.Error("Failed to capture submission", map[string]interface{}{
				"request_id":         requestID,
				"payment_session_id": req.PaymentSessionID,
				"error":              err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "capture_failed",
				Message:   "Could not store the submission",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Submission captured", map[string]interface{}{
			"request_id":         requestID,
			"payment_session_id": req.PaymentSessionID,
		})

		return c.JSON(http.StatusAccepted, map[string]interface{}{
			"success":            true,
			"payment_session_id": req.PaymentSessionID,
			"request_id":         requestID,
		})
	}
}
