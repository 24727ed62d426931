package matching

import (
	"testing"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCompositeCompare(t *testing.T) {
	composite := NewCompositeScorer()

	t.Run("fields present on both sides are scored", func(t *testing.T) {
		r1 := models.IdentityRecord{EntityID: "E1", Name: "Anil Kumar", Email: "anil@iitg.ac.in", StudentID: "S1001"}
		r2 := models.IdentityRecord{EntityID: "E2", Name: "Anil Kumar", Email: "anil.k@iitg.ac.in", StudentID: "S1001"}

		scores := composite.Compare(r1, r2)

		assert.Len(t, scores, 3)
		assert.Equal(t, 1.0, scores[models.FieldName])
		assert.Equal(t, 1.0, scores[models.FieldStudentID])
		assert.Greater(t, scores[models.FieldEmail], 0.8)
	})

	t.Run("absent fields are omitted not zeroed", func(t *testing.T) {
		r1 := models.IdentityRecord{EntityID: "E1", Name: "Anil Kumar", Phone: "+91 98765 43210"}
		r2 := models.IdentityRecord{EntityID: "E2", Name: "Anil Kumar"}

		scores := composite.Compare(r1, r2)

		_, hasPhone := scores[models.FieldPhone]
		assert.False(t, hasPhone)
		assert.Len(t, scores, 1)
	})

	t.Run("name comparison is case insensitive", func(t *testing.T) {
		r1 := models.IdentityRecord{EntityID: "E1", Name: "ANIL KUMAR"}
		r2 := models.IdentityRecord{EntityID: "E2", Name: "anil kumar"}

		scores := composite.Compare(r1, r2)
		assert.Equal(t, 1.0, scores[models.FieldName])
	})

	t.Run("phone compared on digits only", func(t *testing.T) {
		r1 := models.IdentityRecord{EntityID: "E1", Phone: "+91 98765-43210"}
		r2 := models.IdentityRecord{EntityID: "E2", Phone: "919876543210"}

		scores := composite.Compare(r1, r2)
		assert.Equal(t, 1.0, scores[models.FieldPhone])
	})

	t.Run("identifier fields are exact", func(t *testing.T) {
		r1 := models.IdentityRecord{EntityID: "E1", CardID: "C-100", DeviceHash: "abc123"}
		r2 := models.IdentityRecord{EntityID: "E2", CardID: "c-100", DeviceHash: "abc123"}

		scores := composite.Compare(r1, r2)
		assert.Equal(t, 0.0, scores[models.FieldCardID])
		assert.Equal(t, 1.0, scores[models.FieldDeviceHash])
	})
}

// A record pair sharing only the name field must aggregate to exactly
// the raw Jaro-Winkler score of the lowercased names.
func TestCompositeSingleFieldAggregate(t *testing.T) {
	composite := NewCompositeScorer()
	scorer := NewScorer()

	r1 := models.IdentityRecord{EntityID: "E1", Name: "Priya Sharma"}
	r2 := models.IdentityRecord{EntityID: "E2", Name: "Priya Sarma"}

	scores := composite.Compare(r1, r2)
	aggregate := composite.Aggregate(scores, nil)

	assert.InDelta(t, scorer.JaroWinkler("priya sharma", "priya sarma"), aggregate, 0.0001)
}

func TestCompositeAggregate(t *testing.T) {
	composite := NewCompositeScorer()

	t.Run("no scored fields", func(t *testing.T) {
		assert.Equal(t, 0.0, composite.Aggregate(map[string]float64{}, nil))
	})

	t.Run("custom weights", func(t *testing.T) {
		scores := map[string]float64{models.FieldName: 0.8, models.FieldEmail: 0.4}
		weights := map[string]float64{models.FieldName: 1.0, models.FieldEmail: 1.0}
		assert.InDelta(t, 0.6, composite.Aggregate(scores, weights), 0.0001)
	})
}

func TestBoostConfidence(t *testing.T) {
	assert.InDelta(t, 0.6, BoostConfidence(0.5), 0.0001)
	assert.Equal(t, 1.0, BoostConfidence(0.9))
	assert.Equal(t, 0.0, BoostConfidence(0.0))
}
