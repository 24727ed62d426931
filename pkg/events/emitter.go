// Package events handles event emission for match lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for match lifecycle changes
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitMatchCandidates emits match.candidate events for a batch of
// persisted candidates
func (e *Emitter) EmitMatchCandidates(ctx context.Context, candidates []*models.MatchCandidate) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchCandidates")
	defer span.End()

	if len(candidates) == 0 {
		return nil
	}

	outgoing := make([]kafka.OutgoingEvent, 0, len(candidates))
	for _, candidate := range candidates {
		outgoing = append(outgoing, kafka.OutgoingEvent{
			Key:       candidate.ID,
			EventType: string(EventTypeMatchCandidate),
			TenantID:  candidate.TenantID,
			Payload: MatchCandidateEvent{
				BaseEvent:         NewBaseEvent(EventTypeMatchCandidate, candidate.TenantID),
				CandidateID:       candidate.ID,
				SourceEntityID:    candidate.SourceEntityID,
				CandidateEntityID: candidate.CandidateEntityID,
				Score:             candidate.MatchScore,
				Confidence:        candidate.Confidence,
				FieldScores:       candidate.FieldScores,
			},
		})
	}

	if err := e.producer.PublishBatch(ctx, outgoing); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.candidate events")
		return err
	}

	return nil
}

// EmitMatchResolved emits the lifecycle event matching a candidate's
// new review status
func (e *Emitter) EmitMatchResolved(ctx context.Context, candidate *models.MatchCandidate, resolvedBy string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchResolved")
	defer span.End()

	var eventType EventType
	switch candidate.Status {
	case models.MatchCandidateStatusApproved:
		eventType = EventTypeMatchApproved
	case models.MatchCandidateStatusRejected:
		eventType = EventTypeMatchRejected
	case models.MatchCandidateStatusDeferred:
		eventType = EventTypeMatchDeferred
	default:
		return nil
	}

	event := kafka.OutgoingEvent{
		Key:       candidate.ID,
		EventType: string(eventType),
		TenantID:  candidate.TenantID,
		Payload: MatchResolvedEvent{
			BaseEvent:         NewBaseEvent(eventType, candidate.TenantID),
			CandidateID:       candidate.ID,
			SourceEntityID:    candidate.SourceEntityID,
			CandidateEntityID: candidate.CandidateEntityID,
			Score:             candidate.MatchScore,
			ResolvedBy:        resolvedBy,
		},
	}

	if err := e.producer.Publish(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": eventType,
		}).Error("Failed to emit match resolution event")
		return err
	}

	return nil
}
