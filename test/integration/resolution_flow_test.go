package integration

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/embedding"
	"github.com/Ramsey-B/aster/pkg/facematch"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/prediction"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// Resolves a small roster with duplicate identities end to end and
// checks that the duplicates, and only the duplicates, surface as
// candidates.
func TestResolutionFlow(t *testing.T) {
	ctx := context.Background()
	resolver := matching.NewBatchResolver(noopLogger(), matching.DefaultResolverConfig())

	records := []models.IdentityRecord{
		{EntityID: "E001", Name: "Priya Sharma", Email: "priya@iitg.ac.in", Phone: "+91 98765 43210", StudentID: "S2021001"},
		{EntityID: "E002", Name: "priya sharma", Email: "priya@iitg.ac.in", Phone: "9876543210", StudentID: "S2021001"},
		{EntityID: "E003", Name: "Ravi Verma", Email: "ravi.verma@iitg.ac.in", Phone: "9123456780", StudentID: "S2021077"},
	}

	pairs, err := resolver.Resolve(ctx, records)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	pair := pairs[0]
	assert.Equal(t, "E001", pair.Record1ID)
	assert.Equal(t, "E002", pair.Record2ID)
	assert.Equal(t, models.ConfidenceHigh, pair.Confidence)
	assert.Greater(t, pair.Score, 0.9)
	assert.Equal(t, 1.0, pair.FieldScores["email"])
	assert.Equal(t, 1.0, pair.FieldScores["student_id"])
}

// Enrolls faces from raw frames and recognizes one of them from the
// same frame data.
func TestFaceRecognitionFlow(t *testing.T) {
	ctx := context.Background()

	gallery := facematch.NewGallery()
	frames := map[string][]byte{
		"F001": []byte("enrollment-frame-priya"),
		"F002": []byte("enrollment-frame-ravi"),
		"F003": []byte("enrollment-frame-anita"),
	}

	for faceID, frame := range frames {
		err := gallery.Append(
			[][]float64{embedding.GenerateDim(frame, embedding.DefaultDim)},
			[]models.GalleryEntry{{FaceID: faceID}},
		)
		require.NoError(t, err)
	}

	engine := facematch.NewEngine(noopLogger(), gallery)

	query := embedding.GenerateDim(frames["F002"], embedding.DefaultDim)
	result, err := engine.Query(ctx, query, 0.99)
	require.NoError(t, err)
	require.NotNil(t, result.Best)
	assert.Equal(t, "F002", result.Best.FaceID)
	assert.InDelta(t, 1.0, result.Best.Similarity, 1e-9)

	// Unseen frame should not clear a strict threshold
	stranger := embedding.GenerateDim([]byte("cctv-frame-unknown"), embedding.DefaultDim)
	result, err = engine.Query(ctx, stranger, 0.99)
	require.NoError(t, err)
	assert.Nil(t, result.Best)
}

// Predicts movement for a resolved identity based on its visit history.
func TestPredictionFlow(t *testing.T) {
	visits := []models.ObservedVisit{
		{Location: "LIBRARY"},
		{Location: "LIBRARY"},
		{Location: "LIBRARY"},
		{Location: "CAFETERIA"},
	}

	locResp := prediction.PredictLocation(models.LocationPredictionRequest{
		EntityID:       "E001",
		CurrentTime:    time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC),
		HistoricalData: visits,
	})
	require.Len(t, locResp.TopPredictions, 3)
	assert.NotEmpty(t, locResp.PredictedLocation)
	assert.NotEmpty(t, locResp.Explanations)

	actResp := prediction.PredictActivity(models.ActivityPredictionRequest{
		EntityID:    "E001",
		CurrentTime: time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC),
		Location:    locResp.PredictedLocation,
	})
	assert.NotEmpty(t, actResp.PredictedActivity)

	var sum float64
	for _, p := range actResp.ActivityProbabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
