package similarity

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var validate = validator.New()

// Register registers similarity routes
func Register(g *echo.Group) {
	g.POST("/calculate", Calculate)
}

// Calculate computes a similarity score between two strings or two
// identity records, depending on the requested algorithm
func Calculate(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "similarity_handler.Calculate")
	defer span.End()

	var req models.SimilarityRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Algorithm == "composite" {
		return calculateComposite(c, req)
	}

	scorer := matching.NewScorer()
	var score float64
	switch req.Algorithm {
	case "jaro_winkler":
		score = scorer.JaroWinkler(req.String1, req.String2)
	case "levenshtein":
		score = scorer.Levenshtein(req.String1, req.String2)
	case "jaccard_bigram":
		score = scorer.JaccardBigram(req.String1, req.String2)
	case "exact":
		score = scorer.ExactMatch(req.String1, req.String2)
	}

	return c.JSON(http.StatusOK, models.SimilarityResponse{
		Algorithm: req.Algorithm,
		Score:     score,
	})
}

func calculateComposite(c echo.Context, req models.SimilarityRequest) error {
	if req.Record1 == nil || req.Record2 == nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "record1 and record2 are required for composite scoring")
	}

	composite := matching.NewCompositeScorer()
	fieldScores := composite.Compare(*req.Record1, *req.Record2)
	score := composite.Aggregate(fieldScores, nil)

	return c.JSON(http.StatusOK, models.SimilarityResponse{
		Algorithm:   req.Algorithm,
		Score:       score,
		FieldScores: fieldScores,
		Confidence:  matching.BoostConfidence(score),
	})
}
