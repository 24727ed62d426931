package models

// GalleryEntry identifies one enrolled face vector.
type GalleryEntry struct {
	FaceID   string `json:"face_id"`
	EntityID string `json:"entity_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// FaceMatch is a single gallery hit from a query.
type FaceMatch struct {
	FaceID     string  `json:"face_id"`
	EntityID   string  `json:"entity_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Similarity float64 `json:"similarity"`
}

// MatchResult is the full result of a gallery query. Matches is sorted
// by similarity descending; Best is the top match or nil.
type MatchResult struct {
	Matches    []FaceMatch `json:"matches"`
	Best       *FaceMatch  `json:"best,omitempty"`
	Confidence float64     `json:"confidence"`
}

// FaceMatchRequest queries the gallery with a raw embedding vector.
type FaceMatchRequest struct {
	Embedding []float64 `json:"embedding" validate:"required,min=1"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// FaceEmbeddingRequest asks for deterministic embeddings of one or more
// base64-encoded images.
type FaceEmbeddingRequest struct {
	Images []string `json:"images" validate:"required,min=1"`
}

// FaceEmbeddingResponse carries one embedding per input image, nil for
// entries that could not be decoded.
type FaceEmbeddingResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Dimension  int         `json:"dimension"`
}

// RecognizeRequest submits CCTV frames; the first decodable image is
// embedded and matched against the gallery.
type RecognizeRequest struct {
	Images    []string `json:"images" validate:"required,min=1"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// RecognizeResponse is the recognition outcome for a frame.
type RecognizeResponse struct {
	Recognized bool        `json:"recognized"`
	Best       *FaceMatch  `json:"best,omitempty"`
	Matches    []FaceMatch `json:"matches"`
	Confidence float64     `json:"confidence"`
}
