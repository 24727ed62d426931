package middleware

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

// Tracing instruments every request with an OpenTelemetry server span.
func Tracing(serviceName string) echo.MiddlewareFunc {
	return otelecho.Middleware(serviceName)
}
