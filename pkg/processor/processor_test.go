package processor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestProcessor() *Processor {
	logger := noopLogger()
	resolver := matching.NewBatchResolver(logger, matching.DefaultResolverConfig())
	return NewProcessor(logger, resolver, nil, nil)
}

func batchMessage(t *testing.T, batch kafka.RecordBatchMessage) *kafka.IncomingMessage {
	t.Helper()
	value, err := json.Marshal(batch)
	require.NoError(t, err)
	return &kafka.IncomingMessage{
		Key:   batch.BatchID,
		Value: value,
		Topic: "identity.records",
	}
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves matching records", func(t *testing.T) {
		p := newTestProcessor()
		msg := batchMessage(t, kafka.RecordBatchMessage{
			TenantID: "tenant-1",
			BatchID:  "batch-1",
			Records: []models.IdentityRecord{
				{EntityID: "E001", Name: "Priya Sharma", Email: "priya@iitg.ac.in"},
				{EntityID: "E002", Name: "Priya Sharma", Email: "priya@iitg.ac.in"},
			},
		})

		err := p.ProcessMessage(ctx, msg)
		require.NoError(t, err)
		require.NotNil(t, msg.RecordBatch)
		assert.Len(t, msg.RecordBatch.Records, 2)
	})

	t.Run("skips message without tenant", func(t *testing.T) {
		p := newTestProcessor()
		msg := batchMessage(t, kafka.RecordBatchMessage{
			BatchID: "batch-2",
			Records: []models.IdentityRecord{
				{EntityID: "E001", Name: "Priya Sharma"},
				{EntityID: "E002", Name: "Priya Sharma"},
			},
		})

		err := p.ProcessMessage(ctx, msg)
		assert.NoError(t, err)
	})

	t.Run("skips batch with single record", func(t *testing.T) {
		p := newTestProcessor()
		msg := batchMessage(t, kafka.RecordBatchMessage{
			TenantID: "tenant-1",
			BatchID:  "batch-3",
			Records: []models.IdentityRecord{
				{EntityID: "E001", Name: "Priya Sharma"},
			},
		})

		err := p.ProcessMessage(ctx, msg)
		assert.NoError(t, err)
	})

	t.Run("skips redelivered batch", func(t *testing.T) {
		p := newTestProcessor()
		batch := kafka.RecordBatchMessage{
			TenantID: "tenant-1",
			BatchID:  "batch-redelivered",
			Records: []models.IdentityRecord{
				{EntityID: "E001", Name: "Priya Sharma", Email: "priya@iitg.ac.in"},
				{EntityID: "E002", Name: "Priya Sharma", Email: "priya@iitg.ac.in"},
			},
		}

		require.NoError(t, p.ProcessMessage(ctx, batchMessage(t, batch)))

		print := "tenant-1:" + fingerprint.Batch(batch.Records)
		assert.True(t, p.alreadySeen(print))

		// Redelivery with reshuffled records hashes the same
		batch.Records[0], batch.Records[1] = batch.Records[1], batch.Records[0]
		assert.Equal(t, print, "tenant-1:"+fingerprint.Batch(batch.Records))
		require.NoError(t, p.ProcessMessage(ctx, batchMessage(t, batch)))
	})

	t.Run("fails on malformed payload", func(t *testing.T) {
		p := newTestProcessor()
		msg := &kafka.IncomingMessage{
			Value: []byte("not json"),
			Topic: "identity.records",
		}

		err := p.ProcessMessage(ctx, msg)
		assert.Error(t, err)
	})

	t.Run("propagates invalid record errors", func(t *testing.T) {
		p := newTestProcessor()
		msg := batchMessage(t, kafka.RecordBatchMessage{
			TenantID: "tenant-1",
			BatchID:  "batch-4",
			Records: []models.IdentityRecord{
				{EntityID: "E001", Name: "Priya Sharma"},
				{Name: "Missing ID"},
			},
		})

		err := p.ProcessMessage(ctx, msg)
		assert.ErrorIs(t, err, matching.ErrInvalidRecord)
	})
}

func TestBuildCandidates(t *testing.T) {
	p := newTestProcessor()

	pairs := []models.CandidatePair{
		{
			Record1ID:   "E001",
			Record2ID:   "E002",
			Score:       0.95,
			Confidence:  models.ConfidenceHigh,
			FieldScores: map[string]float64{"name": 1.0, "email": 0.9},
		},
		{
			Record1ID:  "E001",
			Record2ID:  "E003",
			Score:      0.75,
			Confidence: models.ConfidenceMedium,
		},
	}

	candidates := p.buildCandidates("tenant-1", pairs)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "tenant-1", first.TenantID)
	assert.Equal(t, "E001", first.SourceEntityID)
	assert.Equal(t, "E002", first.CandidateEntityID)
	assert.Equal(t, 0.95, first.MatchScore)
	assert.Equal(t, models.ConfidenceHigh, first.Confidence)
	assert.Equal(t, models.MatchCandidateStatusPending, first.Status)
	assert.Equal(t, map[string]float64{"name": 1.0, "email": 0.9}, first.FieldScores)

	assert.NotEqual(t, candidates[0].ID, candidates[1].ID)
}
