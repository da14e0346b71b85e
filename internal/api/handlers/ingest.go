package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"aijobs-utils/internal/fetcher"
	"aijobs-utils/internal/llm"
	"aijobs-utils/internal/logging"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

var validate = validator.New()

// IngestHandler runs the full extraction pipeline for a submitted listing
// URL: fetch with fallback, normalize, extract, sanitize. The result is
// returned to the caller and held client-side until payment confirms it.
func IngestHandler(f *fetcher.Fetcher, llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestStart := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.IngestRequest
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

		logger.Info("Ingest request received", map[string]interface{}{
			"request_id": requestID,
			"url":        req.URL,
		})

		ctx := c.Request().Context()

		content, strategy, err := f.Fetch(ctx, req.URL)
		if err != nil {
			logger.Error("Fetch failed", map[string]interface{}{
				"request_id": requestID,
				"url":        req.URL,
				"error":      err.Error(),
			})
			return errorJSON(c, requestID, "fetch_failed", err)
		}

		record, err := llmManager.ExtractJobRecord(ctx, content)
		if err != nil {
			logger.Error("Extraction failed", map[string]interface{}{
				"request_id": requestID,
				"url":        req.URL,
				"error":      err.Error(),
			})
			return errorJSON(c, requestID, "extraction_failed", err)
		}

		logger.Info("Ingest request completed", map[string]interface{}{
			"request_id":      requestID,
			"url":             req.URL,
			"job_title":       record.JobTitle,
			"strategy":        strategy,
			"processing_time": time.Since(requestStart),
		})

		return c.JSON(http.StatusOK, models.IngestResponse{
			Success:        true,
			Record:         record,
			ProcessingTime: time.Since(requestStart),
			Strategy:       strategy,
			RequestID:      requestID,
		})
	}
}

// errorJSON maps pipeline errors onto the response envelope, honoring the
// status code a CustomError carries.
func errorJSON(c echo.Context, requestID, kind string, err error) error {
	code := http.StatusInternalServerError
	var customErr *utils.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
	}

	return c.JSON(code, models.ErrorResponse{
		Error:     kind,
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// isNotFound reports whether err carries a not-found status
func isNotFound(err error) bool {
	var customErr *utils.CustomError
	return errors.As(err, &customErr) && customErr.Code == http.StatusNotFound
}
