package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/config"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestBatchResolve(t *testing.T) {
	resolver := NewBatchResolver(noopLogger(), DefaultResolverConfig())

	records := []models.IdentityRecord{
		{EntityID: "E1", Name: "Anil Kumar", Email: "anil@iitg.ac.in", StudentID: "S1001"},
		{EntityID: "E2", Name: "Anil Kumar", Email: "anil@iitg.ac.in", StudentID: "S1001"},
		{EntityID: "E3", Name: "Priya Sharma", Email: "priya@iitg.ac.in", StudentID: "S2002"},
	}

	matches, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "E1", matches[0].Record1ID)
	assert.Equal(t, "E2", matches[0].Record2ID)
	assert.Equal(t, models.ConfidenceHigh, matches[0].Confidence)
	assert.InDelta(t, 1.0, matches[0].Score, 0.0001)
}

func TestBatchResolvePairBound(t *testing.T) {
	resolver := NewBatchResolver(noopLogger(), ResolverConfig{
		MatchThreshold:          -1, // emit every pair
		HighConfidenceThreshold: 0.9,
	})

	records := []models.IdentityRecord{
		{EntityID: "E1", Name: "a"},
		{EntityID: "E2", Name: "b"},
		{EntityID: "E3", Name: "c"},
		{EntityID: "E4", Name: "d"},
	}

	matches, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)

	// n(n-1)/2 pairs for n records
	assert.Len(t, matches, 6)
}

func TestBatchResolveMissingEntityID(t *testing.T) {
	resolver := NewBatchResolver(noopLogger(), DefaultResolverConfig())

	records := []models.IdentityRecord{
		{EntityID: "E1", Name: "Anil Kumar"},
		{Name: "No ID"},
	}

	_, err := resolver.Resolve(context.Background(), records)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestBatchResolveThreshold(t *testing.T) {
	resolver := NewBatchResolver(noopLogger(), DefaultResolverConfig())

	records := []models.IdentityRecord{
		{EntityID: "E1", Name: "Anil Kumar"},
		{EntityID: "E2", Name: "Ravi Verma"},
	}

	matches, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestBatchResolveMediumConfidence(t *testing.T) {
	resolver := NewBatchResolver(noopLogger(), DefaultResolverConfig())

	records := []models.IdentityRecord{
		{EntityID: "E1", Name: "Anil Kumar", Email: "anil@iitg.ac.in", StudentID: "S1001"},
		{EntityID: "E2", Name: "Anil Kumaar", Email: "anil@iitg.ac.in", StudentID: "S9999"},
	}

	matches, err := resolver.Resolve(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, models.ConfidenceMedium, matches[0].Confidence)
}

func TestBatchResolveEmptyBatch(t *testing.T) {
	resolver := NewBatchResolver(noopLogger(), DefaultResolverConfig())

	matches, err := resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestResolverConfigFromApp(t *testing.T) {
	rc := ResolverConfigFromApp(config.Config{
		MatchThreshold:          0.6,
		HighConfidenceThreshold: 0.85,
	})
	assert.Equal(t, 0.6, rc.MatchThreshold)
	assert.Equal(t, 0.85, rc.HighConfidenceThreshold)
	assert.Equal(t, DefaultBatchWeights, rc.Weights)

	rc = ResolverConfigFromApp(config.Config{})
	assert.Equal(t, 0.7, rc.MatchThreshold)
	assert.Equal(t, 0.9, rc.HighConfidenceThreshold)
}
