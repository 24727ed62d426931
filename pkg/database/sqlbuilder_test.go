package database

import (
	"testing"

	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
)

func TestInsertBuilderOnConflict(t *testing.T) {
	ib := NewInsertBuilder()
	ib.InsertInto("match_candidates")
	ib.Cols("id", "tenant_id", "match_score")
	ib.Values("c1", "t1", 0.8)

	ub := ib.OnConflict("tenant_id", "source_entity_id", "candidate_entity_id")
	ub.Set(
		ub.Assign("match_score", sqlbuilder.Raw("GREATEST(match_candidates.match_score, EXCLUDED.match_score)")),
		ub.Assign("confidence", Excluded("confidence")),
	)

	query, args := ib.Build()

	assert.Contains(t, query, "INSERT INTO match_candidates")
	assert.Contains(t, query, "ON CONFLICT (tenant_id, source_entity_id, candidate_entity_id) DO UPDATE")
	assert.Contains(t, query, "match_score = GREATEST(match_candidates.match_score, EXCLUDED.match_score)")
	assert.Contains(t, query, "confidence = EXCLUDED.confidence")
	assert.Equal(t, []interface{}{"c1", "t1", 0.8}, args)
}

func TestSelectBuilderPostgresPlaceholders(t *testing.T) {
	sb := NewSelectBuilder()
	sb.Select("id", "status")
	sb.From("match_candidates")
	sb.Where(
		sb.Equal("tenant_id", "t1"),
		sb.Equal("status", "pending"),
	)

	query, args := sb.Build()

	assert.Contains(t, query, "$1")
	assert.Contains(t, query, "$2")
	assert.Equal(t, []interface{}{"t1", "pending"}, args)
}

func TestDeleteBuilder(t *testing.T) {
	delb := NewDeleteBuilder()
	delb.DeleteFrom("match_candidates")
	delb.Where(delb.Equal("tenant_id", "t1"))

	query, args := delb.Build()

	assert.Contains(t, query, "DELETE FROM match_candidates")
	assert.Equal(t, []interface{}{"t1"}, args)
}
