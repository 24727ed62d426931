package matching

import (
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
)

// DefaultPairwiseWeights is the weight table for one-off record
// comparisons.
var DefaultPairwiseWeights = map[string]float64{
	models.FieldName:       0.3,
	models.FieldEmail:      0.25,
	models.FieldPhone:      0.2,
	models.FieldStudentID:  0.1,
	models.FieldCardID:     0.1,
	models.FieldDeviceHash: 0.05,
}

// CompositeScorer compares identity records field by field. Name and
// email use Jaro-Winkler on lowercased values, phone uses Levenshtein
// on the digit-only form, and identifier fields require exact equality.
type CompositeScorer struct {
	scorer *Scorer
}

// NewCompositeScorer creates a CompositeScorer
func NewCompositeScorer() *CompositeScorer {
	return &CompositeScorer{scorer: NewScorer()}
}

// Compare scores every comparable field present on both records. Fields
// absent from either side are omitted from the result, never scored 0.
func (c *CompositeScorer) Compare(r1, r2 models.IdentityRecord) map[string]float64 {
	fields1 := r1.Fields()
	fields2 := r2.Fields()

	scores := make(map[string]float64)
	for _, field := range models.ComparableFields {
		v1, ok1 := fields1[field]
		v2, ok2 := fields2[field]
		if !ok1 || !ok2 {
			continue
		}
		scores[field] = c.scoreField(field, v1, v2)
	}

	return scores
}

func (c *CompositeScorer) scoreField(field, v1, v2 string) float64 {
	switch field {
	case models.FieldName, models.FieldEmail:
		return c.scorer.JaroWinkler(normalizers.Lowercase(v1), normalizers.Lowercase(v2))
	case models.FieldPhone:
		return c.scorer.Levenshtein(normalizers.NormalizePhone(v1), normalizers.NormalizePhone(v2))
	default:
		// student_id, card_id, device_hash
		return c.scorer.ExactMatch(v1, v2)
	}
}

// Aggregate combines field scores with the given weight table. Nil
// weights fall back to DefaultPairwiseWeights.
func (c *CompositeScorer) Aggregate(scores map[string]float64, weights map[string]float64) float64 {
	if weights == nil {
		weights = DefaultPairwiseWeights
	}
	return c.scorer.WeightedScore(scores, weights)
}

// BoostConfidence converts an aggregate score into the presentation
// confidence, boosted by 20% and clamped to 1.0. Scoring decisions are
// always made on the raw aggregate.
func BoostConfidence(score float64) float64 {
	confidence := score * 1.2
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
