package face

import (
	"encoding/base64"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/embedding"
	"github.com/Ramsey-B/aster/pkg/facematch"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var validate = validator.New()

// Default similarity thresholds. Direct gallery queries use a stricter
// cutoff than CCTV frames, which are lower quality.
const (
	DefaultMatchThreshold     = 0.8
	DefaultRecognizeThreshold = 0.7
)

// Register registers face matching routes
func Register(g *echo.Group) {
	g.POST("/match", Match)
}

// RegisterEmbeddings registers the embedding generation route
func RegisterEmbeddings(g *echo.Group) {
	g.POST("/face", Embed)
}

// RegisterCCTV registers the CCTV recognition route
func RegisterCCTV(g *echo.Group) {
	g.POST("/recognize", Recognize)
}

// Match queries the enrolled gallery with a raw embedding vector
func Match(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "face_handler.Match")
	defer span.End()

	var req models.FaceMatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	threshold := DefaultMatchThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	ctx, engine, err := ectoinject.GetContext[*facematch.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := engine.Query(ctx, req.Embedding, threshold)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// Embed generates deterministic embeddings for base64-encoded images.
// Entries that cannot be decoded produce a nil embedding. Output
// dimension follows the loaded gallery so results are match-ready.
func Embed(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "face_handler.Embed")
	defer span.End()

	var req models.FaceEmbeddingRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dim := embedding.DefaultDim
	if _, engine, err := ectoinject.GetContext[*facematch.Engine](ctx); err == nil && engine != nil {
		if galleryDim := engine.Gallery().Dim(); galleryDim > 0 {
			dim = galleryDim
		}
	}

	embeddings := make([][]float64, len(req.Images))
	for i, img := range req.Images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			continue
		}
		embeddings[i] = embedding.GenerateDim(data, dim)
	}

	return c.JSON(http.StatusOK, models.FaceEmbeddingResponse{
		Embeddings: embeddings,
		Dimension:  dim,
	})
}

// Recognize embeds the first decodable CCTV frame and matches it
// against the gallery
func Recognize(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "face_handler.Recognize")
	defer span.End()

	var req models.RecognizeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var frame []byte
	for _, img := range req.Images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			continue
		}
		frame = data
		break
	}
	if frame == nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "no decodable image in request")
	}

	threshold := DefaultRecognizeThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	ctx, engine, err := ectoinject.GetContext[*facematch.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	dim := engine.Gallery().Dim()
	if dim <= 0 {
		dim = embedding.DefaultDim
	}

	vector := embedding.GenerateDim(frame, dim)
	result, err := engine.Query(ctx, vector, threshold)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, models.RecognizeResponse{
		Recognized: result.Best != nil,
		Best:       result.Best,
		Matches:    result.Matches,
		Confidence: result.Confidence,
	})
}
