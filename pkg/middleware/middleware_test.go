package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reqctx "github.com/Ramsey-B/aster/pkg/context"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestContextMiddlewarePropagatesHeaders(t *testing.T) {
	e := echo.New()
	e.Use(Context())

	var gotTenant, gotRequestID string
	e.GET("/whoami", func(c echo.Context) error {
		ctx := c.Request().Context()
		gotTenant = reqctx.GetTenantID(ctx)
		gotRequestID = reqctx.GetRequestID(ctx)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderTenantID, "tenant-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tenant-1", gotTenant)
	assert.NotEmpty(t, gotRequestID) // generated when the caller sends none
}

func TestErrorHandlerMapsHTTPErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = Error(noopLogger())
	e.GET("/boom", func(c echo.Context) error {
		return httperror.NewHTTPError(http.StatusBadRequest, "bad input")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad input")
}

func TestTracingMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(Tracing("aster-test"))
	e.GET("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
