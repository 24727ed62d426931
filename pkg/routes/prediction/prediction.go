package prediction

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/prediction"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var validate = validator.New()

// Register registers movement prediction routes
func Register(g *echo.Group) {
	g.POST("/location", PredictLocation)
	g.POST("/activity", PredictActivity)
}

// PredictLocation predicts the likely campus location for an entity
func PredictLocation(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "prediction_handler.PredictLocation")
	defer span.End()

	var req models.LocationPredictionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, prediction.PredictLocation(req))
}

// PredictActivity predicts the likely activity for an entity at a
// location and time
func PredictActivity(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "prediction_handler.PredictActivity")
	defer span.End()

	var req models.ActivityPredictionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, prediction.PredictActivity(req))
}
