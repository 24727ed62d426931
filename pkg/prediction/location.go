// Package prediction implements heuristic campus movement and activity
// predictions from fixed lookup tables. There is no trained model here:
// scores come from base probabilities adjusted for time of day,
// weekends, and the caller-supplied visit history.
package prediction

import (
	"fmt"
	"sort"
	"time"

	"github.com/Ramsey-B/aster/pkg/models"
)

type locationPattern struct {
	peakHours       map[int]bool
	baseProbability float64
}

// Campus locations with their typical usage patterns.
var locationPatterns = map[string]locationPattern{
	"ACADEMIC_COMPLEX": {
		peakHours:       hourSet(9, 10, 11, 14, 15, 16),
		baseProbability: 0.3,
	},
	"LIBRARY": {
		peakHours:       hourSet(10, 11, 14, 15, 16, 17, 19, 20),
		baseProbability: 0.25,
	},
	"COMPUTER_CENTER": {
		peakHours:       hourSet(10, 11, 14, 15, 16, 17),
		baseProbability: 0.2,
	},
	"CAFETERIA": {
		peakHours:       hourSet(8, 12, 13, 18, 19),
		baseProbability: 0.15,
	},
	"HOSTELS": {
		peakHours:       hourSet(22, 23, 0, 1, 6, 7),
		baseProbability: 0.1,
	},
}

func hourSet(hours ...int) map[int]bool {
	set := make(map[int]bool, len(hours))
	for _, h := range hours {
		set[h] = true
	}
	return set
}

// PredictLocation scores every known campus location for the given time
// and visit history and returns the top predictions.
func PredictLocation(req models.LocationPredictionRequest) models.LocationPredictionResponse {
	hour := req.CurrentTime.Hour()
	weekday := req.CurrentTime.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday

	// only the most recent sightings influence frequency
	recent := req.HistoricalData
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	scored := make([]models.LocationScore, 0, len(locationPatterns))
	for location, pattern := range locationPatterns {
		score := pattern.baseProbability

		if pattern.peakHours[hour] {
			score *= 2.0
		}

		if weekend {
			if location == "HOSTELS" || location == "CAFETERIA" {
				score *= 1.5
			} else {
				score *= 0.7
			}
		}

		if len(recent) > 0 {
			visits := 0
			for _, item := range recent {
				if item.Location == location {
					visits++
				}
			}
			frequency := float64(visits) / float64(len(recent))
			score *= 1 + frequency
		}

		if score > 1.0 {
			score = 1.0
		}

		scored = append(scored, models.LocationScore{Location: location, Probability: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Probability != scored[j].Probability {
			return scored[i].Probability > scored[j].Probability
		}
		return scored[i].Location < scored[j].Location
	})

	top := scored
	if len(top) > 3 {
		top = top[:3]
	}

	predicted := top[0].Location

	return models.LocationPredictionResponse{
		PredictedLocation: predicted,
		Confidence:        top[0].Probability,
		TopPredictions:    top,
		Explanations: []string{
			fmt.Sprintf("Current time (%d:00) matches peak hours for %s", hour, predicted),
			fmt.Sprintf("Historical patterns show frequent visits to %s", predicted),
			fmt.Sprintf("Day of week (%s) influences location preference", weekday.String()[:3]),
		},
	}
}
