package matchcandidate_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/config"
	"github.com/Ramsey-B/aster/internal/repositories/matchcandidate"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func getTestDB(t *testing.T) database.DB {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set, skipping repository integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.DatabaseMigrationFolderPath = "../../../db/pg"

	db, err := database.Setup(cfg, getTestLogger())
	require.NoError(t, err, "Failed to connect to test database")
	return db
}

// assertNotFound asserts that err is an HTTP 404 error
func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err), "expected HTTP error, got: %v", err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	repo := matchcandidate.NewRepository(db, getTestLogger())
	ctx := context.Background()
	tenantID := uuid.New().String()

	candidates := []*models.MatchCandidate{
		{
			TenantID:          tenantID,
			SourceEntityID:    "E001",
			CandidateEntityID: "E002",
			MatchScore:        0.95,
			Confidence:        "high",
			FieldScores:       map[string]float64{"name": 1.0, "email": 0.9},
		},
		{
			TenantID:          tenantID,
			SourceEntityID:    "E001",
			CandidateEntityID: "E003",
			MatchScore:        0.72,
			Confidence:        "medium",
			FieldScores:       map[string]float64{"name": 0.8},
		},
	}
	require.NoError(t, repo.CreateBatch(ctx, candidates))

	t.Run("list pending ordered by score", func(t *testing.T) {
		pending, err := repo.ListPending(ctx, tenantID, 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "E002", pending[0].CandidateEntityID)
		assert.Equal(t, map[string]float64{"name": 1.0, "email": 0.9}, pending[0].FieldScores)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.Get(ctx, tenantID, candidates[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.MatchCandidateStatusPending, got.Status)
		assert.Equal(t, 0.95, got.MatchScore)
	})

	t.Run("get by pair is order independent", func(t *testing.T) {
		got, err := repo.GetByEntityPair(ctx, tenantID, "E003", "E001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, candidates[1].ID, got.ID)
	})

	t.Run("conflicting pair keeps the greater score", func(t *testing.T) {
		rescored := []*models.MatchCandidate{{
			TenantID:          tenantID,
			SourceEntityID:    "E001",
			CandidateEntityID: "E002",
			MatchScore:        0.80,
			Confidence:        "medium",
			FieldScores:       map[string]float64{"name": 0.85},
		}}
		require.NoError(t, repo.CreateBatch(ctx, rescored))

		got, err := repo.GetByEntityPair(ctx, tenantID, "E001", "E002")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 0.95, got.MatchScore)
		assert.Equal(t, "medium", got.Confidence)
	})

	t.Run("resolve updates status in one transaction", func(t *testing.T) {
		reviewer := "analyst@example.com"
		resolved, err := repo.Resolve(ctx, tenantID, candidates[0].ID, models.MatchCandidateStatusApproved, &reviewer)
		require.NoError(t, err)
		assert.Equal(t, models.MatchCandidateStatusApproved, resolved.Status)
		require.NotNil(t, resolved.ResolvedBy)
		assert.Equal(t, reviewer, *resolved.ResolvedBy)
		assert.NotNil(t, resolved.ResolvedAt)
	})

	t.Run("resolve unknown candidate returns not found", func(t *testing.T) {
		reviewer := "analyst@example.com"
		_, err := repo.Resolve(ctx, tenantID, uuid.New().String(), models.MatchCandidateStatusRejected, &reviewer)
		assertNotFound(t, err)
	})

	t.Run("delete by entity removes both pairs", func(t *testing.T) {
		require.NoError(t, repo.DeleteByEntityID(ctx, tenantID, "E001"))

		remaining, err := repo.ListByEntity(ctx, tenantID, "E001", "")
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}
