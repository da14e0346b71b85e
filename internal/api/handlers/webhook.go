package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"aijobs-utils/internal/commit"
	"aijobs-utils/internal/logging"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// PaymentWebhookHandler commits a paid submission. The payment processor
// delivers at least once; the coordinator's idempotency makes redeliveries
// return the original job instead of inserting twice.
func PaymentWebhookHandler(coordinator *commit.Coordinator, pending SubmissionHold) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var event models.PaymentEvent
		if err := c.Bind(&event); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid event format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&event); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()

		payload := event.Payload
		if payload == nil {
			entry, err := pending.Get(ctx, event.PaymentSessionID)
			switch {
			case err == nil:
				payload = entry.Payload
			case isNotFound(err):
				// A redelivery of an already-committed session has had
				// its pending entry cleared; the coordinator resolves it
				// by payment id without a payload.
			default:
				logger.Error("Pending submission lookup failed", map[string]interface{}{
					"request_id":         requestID,
					"payment_session_id": event.PaymentSessionID,
					"error":              err.Error(),
				})
				return errorJSON(c, requestID, "pending_unavailable", err)
			}
		}

		job, duplicate, err := coordinator.Commit(ctx, event.PaymentSessionID, payload)
		if err != nil {
			logger.Error("Commit failed", map[string]interface{}{
				"request_id":         requestID,
				"payment_session_id": event.PaymentSessionID,
				"error":              err.Error(),
			})
			return errorJSON(c, requestID, "commit_failed", err)
		}

		if !duplicate {
			if err := pending.Delete(ctx, event.PaymentSessionID); err != nil {
				logger.Warn("Failed to clear pending submission", map[string]interface{}{
					"payment_session_id": event.PaymentSessionID,
					"error":              err.Error(),
				})
			}
		}

		response := models.CommitResponse{
			Success:   true,
			JobID:     job.ID.String(),
			Duplicate: duplicate,
			RequestID: requestID,
		}
		if job.CompanyID != nil {
			response.CompanyID = job.CompanyID.String()
		}

		logger.Info("Payment event committed", map[string]interface{}{
			"request_id":         requestID,
			"payment_session_id": event.PaymentSessionID,
			"job_id":             response.JobID,
			"duplicate":          duplicate,
		})

		return c.JSON(http.StatusOK, response)
	}
}
