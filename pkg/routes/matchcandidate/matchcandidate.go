package matchcandidate

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/matchcandidate"
	ctxmiddleware "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/graph"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var validate = validator.New()

// Register registers match candidate review routes
func Register(g *echo.Group) {
	g.GET("", ListMatchCandidates)
	g.GET("/:id", GetMatchCandidate)
	g.POST("/:id/approve", ApproveMatchCandidate)
	g.POST("/:id/reject", RejectMatchCandidate)
	g.POST("/:id/defer", DeferMatchCandidate)
}

// ListMatchCandidates lists match candidates with optional filters
func ListMatchCandidates(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "matchcandidate_handler.List")
	defer span.End()

	tenantID := ctxmiddleware.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	status := c.QueryParam("status")
	entityID := c.QueryParam("entity_id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*matchcandidate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	var candidates []models.MatchCandidate
	if entityID != "" {
		candidates, err = repo.ListByEntity(ctx, tenantID, entityID, status)
	} else {
		candidates, err = repo.ListPending(ctx, tenantID, limit)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, candidates)
}

// GetMatchCandidate gets a match candidate by ID, or by entity pair
// when entity_a_id/entity_b_id query parameters are used
func GetMatchCandidate(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "matchcandidate_handler.Get")
	defer span.End()

	tenantID := ctxmiddleware.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*matchcandidate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	id := c.Param("id")
	if id == "pair" {
		entityAID := c.QueryParam("entity_a_id")
		entityBID := c.QueryParam("entity_b_id")
		if entityAID == "" || entityBID == "" {
			return httperror.NewHTTPError(http.StatusBadRequest, "entity_a_id and entity_b_id query parameters are required")
		}

		candidate, err := repo.GetByEntityPair(ctx, tenantID, entityAID, entityBID)
		if err != nil {
			return err
		}
		if candidate == nil {
			return httperror.NewHTTPError(http.StatusNotFound, "match candidate not found")
		}
		return c.JSON(http.StatusOK, candidate)
	}

	candidate, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, candidate)
}

// ApproveMatchCandidate approves a match candidate. The pair is
// projected into the graph as a SAME_AS link.
func ApproveMatchCandidate(c echo.Context) error {
	return resolveCandidate(c, models.MatchCandidateStatusApproved)
}

// RejectMatchCandidate rejects a match candidate and removes any
// existing SAME_AS link
func RejectMatchCandidate(c echo.Context) error {
	return resolveCandidate(c, models.MatchCandidateStatusRejected)
}

// DeferMatchCandidate defers a match candidate for later review
func DeferMatchCandidate(c echo.Context) error {
	return resolveCandidate(c, models.MatchCandidateStatusDeferred)
}

func resolveCandidate(c echo.Context, status string) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "matchcandidate_handler.resolveCandidate")
	defer span.End()

	tenantID := ctxmiddleware.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "candidate id is required")
	}

	var req models.ResolveCandidateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*matchcandidate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	candidate, err := repo.Resolve(ctx, tenantID, id, status, &req.ResolvedBy)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger == nil {
		logger = ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	}
	log := logger.WithContext(ctx).WithFields(map[string]any{
		"candidate_id":        id,
		"source_entity_id":    candidate.SourceEntityID,
		"candidate_entity_id": candidate.CandidateEntityID,
		"status":              status,
	})

	// Project the decision into the graph. Failures are logged, not
	// surfaced - the review decision is already persisted.
	ctx, identityService, err := ectoinject.GetContext[*graph.IdentityService](ctx)
	if err == nil && identityService != nil {
		switch status {
		case models.MatchCandidateStatusApproved:
			if err := identityService.LinkSameAs(ctx, candidate); err != nil {
				log.WithError(err).Warn("Failed to project approved match into graph")
			}
		case models.MatchCandidateStatusRejected:
			if err := identityService.UnlinkSameAs(ctx, tenantID, candidate.SourceEntityID, candidate.CandidateEntityID); err != nil {
				log.WithError(err).Warn("Failed to remove rejected match from graph")
			}
		}
	}

	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err == nil && emitter != nil {
		if err := emitter.EmitMatchResolved(ctx, candidate, req.ResolvedBy); err != nil {
			log.WithError(err).Warn("Failed to emit match resolution event")
		}
	}

	log.Info("Resolved match candidate")

	return c.JSON(http.StatusOK, candidate)
}
