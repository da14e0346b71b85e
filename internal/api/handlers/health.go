package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"aijobs-utils/internal/llm"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/store"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

var startTime = time.Now()

const version = "1.0.0" // TODO: Get from build info

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether every dependency the request paths need
// is reachable. Redis being down degrades to not-ready because the
// submission capture path writes there before any payment arrives.
func ReadinessHandler(llmManager *llm.Manager, s store.Store, pending SubmissionHold) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if llmManager != nil && llmManager.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "unavailable"
			status = "not ready"
			code = http.StatusServiceUnavailable
		}

		if s != nil {
			if _, err := s.Job().Count(ctx); err != nil {
				checks["database"] = "unavailable"
				status = "not ready"
				code = http.StatusServiceUnavailable
			} else {
				checks["database"] = "ok"
			}
		}

		if pending != nil {
			if err := pending.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				status = "not ready"
				code = http.StatusServiceUnavailable
			} else {
				checks["redis"] = "ok"
			}
		}

		response := models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		}

		return c.JSON(code, response)
	}
}
