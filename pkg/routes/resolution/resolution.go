package resolution

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/matchcandidate"
	ctxmiddleware "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var validate = validator.New()

// Register registers batch resolution routes
func Register(g *echo.Group) {
	g.POST("/entity-resolution", Resolve)
}

// Resolve runs pairwise resolution over a batch of identity records.
// When persist is set, pairs above threshold are stored as pending
// match candidates for review.
func Resolve(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "resolution_handler.Resolve")
	defer span.End()

	var req models.BatchResolutionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, resolver, err := ectoinject.GetContext[*matching.BatchResolver](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	pairs, err := resolver.Resolve(ctx, req.Records)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Persist && len(pairs) > 0 {
		tenantID := ctxmiddleware.GetTenantID(ctx)
		if tenantID == "" {
			return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required to persist candidates")
		}

		ctx, repo, err := ectoinject.GetContext[*matchcandidate.Repository](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}

		candidates := make([]*models.MatchCandidate, 0, len(pairs))
		for i := range pairs {
			pair := &pairs[i]
			candidates = append(candidates, &models.MatchCandidate{
				ID:                uuid.NewString(),
				TenantID:          tenantID,
				SourceEntityID:    pair.Record1ID,
				CandidateEntityID: pair.Record2ID,
				MatchScore:        pair.Score,
				Confidence:        pair.Confidence,
				FieldScores:       pair.FieldScores,
				Status:            models.MatchCandidateStatusPending,
			})
		}

		if err := repo.CreateBatch(ctx, candidates); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, models.BatchResolutionResponse{
		RecordCount: len(req.Records),
		MatchCount:  len(pairs),
		Matches:     pairs,
	})
}
