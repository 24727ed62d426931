package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/aster/pkg/models"
)

func TestRecord(t *testing.T) {
	r1 := models.IdentityRecord{EntityID: "E001", Name: "Priya Sharma", Email: "priya@iitg.ac.in"}
	r2 := models.IdentityRecord{EntityID: "E001", Name: "Priya Sharma", Email: "priya@iitg.ac.in"}
	r3 := models.IdentityRecord{EntityID: "E001", Name: "Priya Sharma"}

	assert.Equal(t, Record(&r1), Record(&r2))
	assert.NotEqual(t, Record(&r1), Record(&r3))
	assert.Len(t, Record(&r1), 64)
}

func TestBatch(t *testing.T) {
	a := models.IdentityRecord{EntityID: "E001", Name: "Priya Sharma"}
	b := models.IdentityRecord{EntityID: "E002", Name: "Ravi Verma"}

	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t,
			Batch([]models.IdentityRecord{a, b}),
			Batch([]models.IdentityRecord{b, a}),
		)
	})

	t.Run("content sensitive", func(t *testing.T) {
		changed := b
		changed.Phone = "9876543210"
		assert.NotEqual(t,
			Batch([]models.IdentityRecord{a, b}),
			Batch([]models.IdentityRecord{a, changed}),
		)
	})
}

func TestHasChanged(t *testing.T) {
	assert.False(t, HasChanged("abc", "abc"))
	assert.True(t, HasChanged("abc", "def"))
}
