package matchcandidate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/models"
)

var candidateColumns = []string{
	"id", "tenant_id", "source_entity_id", "candidate_entity_id",
	"match_score", "confidence", "field_scores", "status",
	"created_at", "updated_at", "resolved_at", "resolved_by",
}

// candidateRow adds the JSONB scan target for field_scores.
type candidateRow struct {
	models.MatchCandidate
	FieldScoresJSON database.JSONB[map[string]float64] `db:"field_scores"`
}

func (r candidateRow) model() models.MatchCandidate {
	c := r.MatchCandidate
	c.FieldScores = r.FieldScoresJSON.Data
	return c
}

// Repository handles match candidate persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new match candidate repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new match candidate
func (r *Repository) Create(ctx context.Context, candidate *models.MatchCandidate) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.Create")
	defer span.End()

	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	candidate.CreatedAt = time.Now().UTC()
	candidate.UpdatedAt = candidate.CreatedAt
	candidate.Status = models.MatchCandidateStatusPending

	ib := database.NewInsertBuilder()
	ib.InsertInto("match_candidates")
	ib.Cols("id", "tenant_id", "source_entity_id", "candidate_entity_id", "match_score", "confidence", "field_scores", "status", "created_at", "updated_at")
	ib.Values(candidate.ID, candidate.TenantID, candidate.SourceEntityID, candidate.CandidateEntityID, candidate.MatchScore, candidate.Confidence, database.JSONB[map[string]float64]{Data: candidate.FieldScores}, candidate.Status, candidate.CreatedAt, candidate.UpdatedAt)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"candidate_id": candidate.ID}).Error("Failed to create match candidate")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match candidate")
	}

	return candidate, nil
}

// CreateBatch creates multiple match candidates efficiently. Existing
// pairs keep the greater score.
func (r *Repository) CreateBatch(ctx context.Context, candidates []*models.MatchCandidate) error {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.CreateBatch")
	defer span.End()

	if len(candidates) == 0 {
		return nil
	}

	now := time.Now().UTC()
	ib := database.NewInsertBuilder()
	ib.InsertInto("match_candidates")
	ib.Cols("id", "tenant_id", "source_entity_id", "candidate_entity_id", "match_score", "confidence", "field_scores", "status", "created_at", "updated_at")

	for _, c := range candidates {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		if c.Status == "" {
			c.Status = models.MatchCandidateStatusPending
		}
		ib.Values(c.ID, c.TenantID, c.SourceEntityID, c.CandidateEntityID, c.MatchScore, c.Confidence, database.JSONB[map[string]float64]{Data: c.FieldScores}, c.Status, c.CreatedAt, c.UpdatedAt)
	}

	ub := ib.OnConflict("tenant_id", "source_entity_id", "candidate_entity_id")
	ub.Set(
		ub.Assign("match_score", sqlbuilder.Raw("GREATEST(match_candidates.match_score, EXCLUDED.match_score)")),
		ub.Assign("confidence", database.Excluded("confidence")),
		ub.Assign("field_scores", database.Excluded("field_scores")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create match candidates batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match candidates")
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(candidates)}).Debug("Created match candidates batch")
	return nil
}

// Get retrieves a match candidate by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.Get")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(candidateColumns...)
	sb.From("match_candidates")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var row candidateRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match candidate %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match candidate")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match candidate")
	}

	candidate := row.model()
	return &candidate, nil
}

// ListPending retrieves pending match candidates for review, highest
// scores first
func (r *Repository) ListPending(ctx context.Context, tenantID string, limit int) ([]models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.ListPending")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := database.NewSelectBuilder()
	sb.Select(candidateColumns...)
	sb.From("match_candidates")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("status", models.MatchCandidateStatusPending),
	)
	sb.OrderBy("match_score DESC", "created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list pending match candidates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list pending match candidates")
	}

	candidates := make([]models.MatchCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.model())
	}
	return candidates, nil
}

// ListByEntity retrieves match candidates involving a specific entity
func (r *Repository) ListByEntity(ctx context.Context, tenantID string, entityID string, status string) ([]models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.ListByEntity")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(candidateColumns...)
	sb.From("match_candidates")

	where := []string{
		sb.Equal("tenant_id", tenantID),
		fmt.Sprintf("(source_entity_id = %s OR candidate_entity_id = %s)", sb.Var(entityID), sb.Var(entityID)),
	}
	if status != "" {
		where = append(where, sb.Equal("status", status))
	}
	sb.Where(where...)
	sb.OrderBy("match_score DESC", "created_at DESC")

	query, args := sb.Build()
	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list match candidates by entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match candidates")
	}

	candidates := make([]models.MatchCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.model())
	}
	return candidates, nil
}

// GetByEntityPair gets an existing candidate between two entities
// (regardless of order)
func (r *Repository) GetByEntityPair(ctx context.Context, tenantID string, entityA, entityB string) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.GetByEntityPair")
	defer span.End()

	query := `
		SELECT id, tenant_id, source_entity_id, candidate_entity_id, match_score, confidence, field_scores, status, created_at, updated_at, resolved_at, resolved_by
		FROM match_candidates
		WHERE tenant_id = $1
		AND ((source_entity_id = $2 AND candidate_entity_id = $3) OR (source_entity_id = $3 AND candidate_entity_id = $2))
		LIMIT 1
	`

	var row candidateRow
	if err := r.db.GetContext(ctx, &row, query, tenantID, entityA, entityB); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil // No existing candidate
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match candidate by entity pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match candidate")
	}

	candidate := row.model()
	return &candidate, nil
}

// Resolve updates the review status of a match candidate and reads the
// resolved row back, in one transaction
func (r *Repository) Resolve(ctx context.Context, tenantID string, id string, status string, resolvedBy *string) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.Resolve")
	defer span.End()

	now := time.Now().UTC()
	ub := database.NewUpdateBuilder()
	ub.Update("match_candidates")
	ub.Set(
		ub.Assign("status", status),
		ub.Assign("resolved_at", now),
		ub.Assign("resolved_by", resolvedBy),
		ub.Assign("updated_at", now),
	)
	ub.Where(
		ub.Equal("id", id),
		ub.Equal("tenant_id", tenantID),
	)

	query, args := ub.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update match candidate status")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update match candidate status")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match candidate %s not found", id))
	}

	sb := database.NewSelectBuilder()
	sb.Select(candidateColumns...)
	sb.From("match_candidates")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args = sb.Build()
	var row candidateRow
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to read back resolved match candidate")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve match candidate")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	candidate := row.model()
	return &candidate, nil
}

// DeleteByEntityID removes all candidates involving an entity
func (r *Repository) DeleteByEntityID(ctx context.Context, tenantID string, entityID string) error {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.DeleteByEntityID")
	defer span.End()

	delb := database.NewDeleteBuilder()
	delb.DeleteFrom("match_candidates")
	delb.Where(
		delb.Equal("tenant_id", tenantID),
		fmt.Sprintf("(source_entity_id = %s OR candidate_entity_id = %s)", delb.Var(entityID), delb.Var(entityID)),
	)

	query, args := delb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete match candidates by entity_id")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete match candidates")
	}

	return nil
}
