package facematch

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Engine matches query embeddings against a Gallery by cosine
// similarity.
type Engine struct {
	logger  ectologger.Logger
	gallery *Gallery
}

// NewEngine creates a match engine over the given gallery
func NewEngine(logger ectologger.Logger, gallery *Gallery) *Engine {
	return &Engine{
		logger:  logger,
		gallery: gallery,
	}
}

// Gallery returns the engine's gallery.
func (e *Engine) Gallery() *Gallery {
	return e.gallery
}

// Query matches the vector against every enrolled face and returns hits
// with similarity >= threshold, sorted descending (ties keep enrollment
// order). An empty gallery or a zero-norm query yields an empty result
// with confidence 0. A dimension mismatch additionally returns
// ErrDimensionMismatch so callers can reject the input.
func (e *Engine) Query(ctx context.Context, vector []float64, threshold float64) (models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "facematch.Engine.Query")
	defer span.End()

	result := models.MatchResult{Matches: []models.FaceMatch{}}

	vectors, entries, dim := e.gallery.snapshot()
	if len(vectors) == 0 {
		e.logger.WithContext(ctx).Warn("Face gallery is empty")
		return result, nil
	}

	if len(vector) != dim {
		return result, fmt.Errorf("query has dimension %d, gallery has %d: %w", len(vector), dim, ErrDimensionMismatch)
	}

	query := make([]float64, len(vector))
	copy(query, vector)

	var sum float64
	for _, v := range query {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return result, nil
	}
	for i := range query {
		query[i] /= norm
	}

	for i, row := range vectors {
		var sim float64
		for j, v := range row {
			sim += v * query[j]
		}
		if sim < threshold {
			continue
		}
		result.Matches = append(result.Matches, models.FaceMatch{
			FaceID:     entries[i].FaceID,
			EntityID:   entries[i].EntityID,
			Name:       entries[i].Name,
			Similarity: sim,
		})
	}

	sort.SliceStable(result.Matches, func(a, b int) bool {
		return result.Matches[a].Similarity > result.Matches[b].Similarity
	})

	if len(result.Matches) > 0 {
		best := result.Matches[0]
		result.Best = &best
		result.Confidence = best.Similarity
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"gallery_size": len(vectors),
		"match_count":  len(result.Matches),
		"threshold":    threshold,
	}).Debug("Face gallery query complete")

	return result, nil
}
