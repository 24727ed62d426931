package models

import "time"

// ObservedVisit is one historical sighting of an entity at a campus
// location, supplied by the caller as prediction context.
type ObservedVisit struct {
	Location   string    `json:"location"`
	ObservedAt time.Time `json:"observed_at,omitempty"`
}

// LocationPredictionRequest asks where an entity is likely to be next.
type LocationPredictionRequest struct {
	EntityID       string          `json:"entity_id" validate:"required"`
	CurrentTime    time.Time       `json:"current_time" validate:"required"`
	HistoricalData []ObservedVisit `json:"historical_data,omitempty"`
}

// LocationScore is one scored location in a prediction result.
type LocationScore struct {
	Location    string  `json:"location"`
	Probability float64 `json:"probability"`
}

// LocationPredictionResponse is the location prediction outcome.
type LocationPredictionResponse struct {
	PredictedLocation string          `json:"predicted_location"`
	Confidence        float64         `json:"confidence"`
	TopPredictions    []LocationScore `json:"top_3_predictions"`
	Explanations      []string        `json:"explanations"`
}

// ActivityPredictionRequest asks what an entity is likely doing given
// its current location and time.
type ActivityPredictionRequest struct {
	EntityID    string    `json:"entity_id" validate:"required"`
	CurrentTime time.Time `json:"current_time" validate:"required"`
	Location    string    `json:"location" validate:"required"`
}

// ActivityPredictionResponse is the activity prediction outcome.
// Probabilities are normalized to sum to 1.
type ActivityPredictionResponse struct {
	PredictedActivity     string             `json:"predicted_activity"`
	Confidence            float64            `json:"confidence"`
	ActivityProbabilities map[string]float64 `json:"activity_probabilities"`
	Explanations          []string           `json:"explanations"`
}
