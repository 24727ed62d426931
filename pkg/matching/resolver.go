package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/config"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// ErrInvalidRecord is returned when a batch contains a record without
// the required entity identifier.
var ErrInvalidRecord = errors.New("identity record missing entity_id")

// DefaultBatchWeights is the weight table used for batch resolution.
// Device and card identifiers are excluded; batch ingest feeds rarely
// carry them.
var DefaultBatchWeights = map[string]float64{
	models.FieldName:      0.4,
	models.FieldEmail:     0.3,
	models.FieldPhone:     0.2,
	models.FieldStudentID: 0.1,
}

// ResolverConfig contains configuration for the batch resolver
type ResolverConfig struct {
	MatchThreshold          float64            // Minimum aggregate score to emit a candidate (default: 0.7)
	HighConfidenceThreshold float64            // Score above which a candidate is classified "high" (default: 0.9)
	Weights                 map[string]float64 // Field weight table (default: DefaultBatchWeights)
}

// DefaultResolverConfig returns default resolver configuration
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MatchThreshold:          0.7,
		HighConfidenceThreshold: 0.9,
		Weights:                 DefaultBatchWeights,
	}
}

// ResolverConfigFromApp builds resolver configuration from app config
func ResolverConfigFromApp(cfg config.Config) ResolverConfig {
	rc := DefaultResolverConfig()
	if cfg.MatchThreshold > 0 {
		rc.MatchThreshold = cfg.MatchThreshold
	}
	if cfg.HighConfidenceThreshold > 0 {
		rc.HighConfidenceThreshold = cfg.HighConfidenceThreshold
	}
	return rc
}

// BatchResolver scores every unordered pair in a batch of identity
// records. O(n²) in the batch size; callers bound the batch.
type BatchResolver struct {
	logger    ectologger.Logger
	composite *CompositeScorer
	config    ResolverConfig
}

// NewBatchResolver creates a new batch resolver
func NewBatchResolver(logger ectologger.Logger, config ResolverConfig) *BatchResolver {
	if config.Weights == nil {
		config.Weights = DefaultBatchWeights
	}
	return &BatchResolver{
		logger:    logger,
		composite: NewCompositeScorer(),
		config:    config,
	}
}

// Resolve compares all record pairs and returns those scoring above the
// match threshold, sorted by score descending. Records missing the
// required identifier fail the whole batch with ErrInvalidRecord.
func (r *BatchResolver) Resolve(ctx context.Context, records []models.IdentityRecord) ([]models.CandidatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.BatchResolver.Resolve")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"record_count": len(records),
	})

	for i, record := range records {
		if record.EntityID == "" {
			return nil, fmt.Errorf("record at index %d: %w", i, ErrInvalidRecord)
		}
	}

	matches := make([]models.CandidatePair, 0)
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			scores := r.composite.Compare(records[i], records[j])
			score := r.composite.Aggregate(scores, r.config.Weights)

			if score <= r.config.MatchThreshold {
				continue
			}

			matches = append(matches, models.CandidatePair{
				Record1ID:   records[i].EntityID,
				Record2ID:   records[j].EntityID,
				Score:       score,
				Confidence:  r.classify(score),
				FieldScores: scores,
			})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	log.WithFields(map[string]any{"match_count": len(matches)}).Debug("Resolved record batch")

	return matches, nil
}

func (r *BatchResolver) classify(score float64) string {
	if score > r.config.HighConfidenceThreshold {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}
