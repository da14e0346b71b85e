package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}

// SelectiveTimeoutConfig applies a longer timeout to model-backed endpoints
// and the default everywhere else. Extraction legitimately takes minutes on
// long listings; health checks never should.
func SelectiveTimeoutConfig(defaultTimeout, extendedTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timeout := defaultTimeout
			if strings.HasPrefix(c.Path(), "/api/v1/ingest") {
				timeout = extendedTimeout
			}
			return TimeoutConfig(timeout)(next)(c)
		}
	}
}
