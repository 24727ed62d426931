package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of event
type EventType string

const (
	EventTypeMatchCandidate EventType = "match.candidate"
	EventTypeMatchApproved  EventType = "match.approved"
	EventTypeMatchRejected  EventType = "match.rejected"
	EventTypeMatchDeferred  EventType = "match.deferred"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	TenantID      string    `json:"tenant_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// MatchCandidateEvent is emitted when a potential match is identified
type MatchCandidateEvent struct {
	BaseEvent
	CandidateID       string             `json:"candidate_id"`
	SourceEntityID    string             `json:"source_entity_id"`
	CandidateEntityID string             `json:"candidate_entity_id"`
	Score             float64            `json:"score"`
	Confidence        string             `json:"confidence"`
	FieldScores       map[string]float64 `json:"field_scores,omitempty"`
}

// MatchResolvedEvent is emitted when a candidate is approved, rejected,
// or deferred during review
type MatchResolvedEvent struct {
	BaseEvent
	CandidateID       string  `json:"candidate_id"`
	SourceEntityID    string  `json:"source_entity_id"`
	CandidateEntityID string  `json:"candidate_entity_id"`
	Score             float64 `json:"score"`
	ResolvedBy        string  `json:"resolved_by"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType EventType, tenantID string) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		TenantID:      tenantID,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New().String(),
	}
}
