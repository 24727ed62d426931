package prediction

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/middleware"
	"github.com/Ramsey-B/aster/pkg/models"
)

func makeRequest(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	Register(e.Group("/api/v1/prediction"))

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPredictLocation(t *testing.T) {
	t.Run("morning on a weekday", func(t *testing.T) {
		rec := makeRequest(t, "/api/v1/prediction/location", models.LocationPredictionRequest{
			EntityID:    "E001",
			CurrentTime: time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.LocationPredictionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ACADEMIC_COMPLEX", resp.PredictedLocation)
		assert.Len(t, resp.TopPredictions, 3)
		assert.NotEmpty(t, resp.Explanations)
	})

	t.Run("rejects missing entity id", func(t *testing.T) {
		rec := makeRequest(t, "/api/v1/prediction/location", models.LocationPredictionRequest{
			CurrentTime: time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPredictActivity(t *testing.T) {
	t.Run("library study session", func(t *testing.T) {
		rec := makeRequest(t, "/api/v1/prediction/activity", models.ActivityPredictionRequest{
			EntityID:    "E001",
			CurrentTime: time.Date(2026, time.August, 26, 11, 0, 0, 0, time.UTC),
			Location:    "LIBRARY",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ActivityPredictionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "study_session", resp.PredictedActivity)

		var sum float64
		for _, p := range resp.ActivityProbabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("rejects missing location", func(t *testing.T) {
		rec := makeRequest(t, "/api/v1/prediction/activity", models.ActivityPredictionRequest{
			EntityID:    "E001",
			CurrentTime: time.Date(2026, time.August, 26, 11, 0, 0, 0, time.UTC),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
