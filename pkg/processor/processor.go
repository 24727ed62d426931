// Package processor handles incoming identity record batches and manages the
// resolution pipeline. It resolves candidate pairs, persists them, and emits
// match events for downstream review tooling.
package processor

import (
	"context"
	"sync"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/aster/internal/repositories/matchcandidate"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// seenBatchLimit bounds the redelivery dedup window
const seenBatchLimit = 1024

// Processor handles record batch messages from Kafka
type Processor struct {
	logger        ectologger.Logger
	resolver      *matching.BatchResolver
	candidateRepo *matchcandidate.Repository
	emitter       *events.Emitter

	// Fingerprints of recently processed batches, used to skip
	// at-least-once redeliveries
	seenMu    sync.Mutex
	seen      map[string]bool
	seenOrder []string
}

// NewProcessor creates a new record batch processor. The repository and
// emitter are optional; when nil the processor only resolves.
func NewProcessor(
	logger ectologger.Logger,
	resolver *matching.BatchResolver,
	candidateRepo *matchcandidate.Repository,
	emitter *events.Emitter,
) *Processor {
	return &Processor{
		logger:        logger,
		resolver:      resolver,
		candidateRepo: candidateRepo,
		emitter:       emitter,
		seen:          make(map[string]bool, seenBatchLimit),
	}
}

// ProcessMessage handles an incoming Kafka message
func (p *Processor) ProcessMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.ProcessMessage")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"key":    msg.Key,
		"topic":  msg.Topic,
		"offset": msg.Offset,
	})

	if msg.RecordBatch == nil {
		if err := msg.ParseRecordBatch(); err != nil {
			log.WithError(err).Error("Failed to parse record batch message")
			return err
		}
	}

	tenantID := msg.GetTenantID()
	if tenantID == "" {
		log.Error("Missing tenant_id in message")
		return nil // Skip message, don't retry
	}

	batch := msg.RecordBatch
	log = log.WithFields(map[string]any{
		"tenant_id":    tenantID,
		"batch_id":     msg.GetBatchID(),
		"record_count": len(batch.Records),
	})

	if len(batch.Records) < 2 {
		log.Debug("Batch too small to resolve, skipping")
		return nil
	}

	// Dedup key covers tenant and record content, so a redelivered or
	// reshuffled copy of the same batch is skipped
	batchPrint := tenantID + ":" + fingerprint.Batch(batch.Records)
	if p.alreadySeen(batchPrint) {
		log.Debug("Batch already processed, skipping redelivery")
		return nil
	}

	pairs, err := p.resolver.Resolve(ctx, batch.Records)
	if err != nil {
		log.WithError(err).Error("Failed to resolve record batch")
		return err
	}

	if len(pairs) == 0 {
		log.Debug("No candidate pairs above threshold")
		p.markSeen(batchPrint)
		return nil
	}

	candidates := p.buildCandidates(tenantID, pairs)

	if p.candidateRepo != nil {
		if err := p.candidateRepo.CreateBatch(ctx, candidates); err != nil {
			log.WithError(err).Error("Failed to persist match candidates")
			return err
		}
	}

	if p.emitter != nil {
		if err := p.emitter.EmitMatchCandidates(ctx, candidates); err != nil {
			// Candidates are persisted; events can be replayed from the store
			log.WithError(err).Warn("Failed to emit match candidate events")
		}
	}

	p.markSeen(batchPrint)

	log.WithFields(map[string]any{
		"candidate_count": len(candidates),
	}).Info("Record batch resolved")

	return nil
}

// alreadySeen reports whether a batch fingerprint was processed recently
func (p *Processor) alreadySeen(print string) bool {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	return p.seen[print]
}

// markSeen records a processed batch fingerprint. The window is
// bounded; the oldest entry is evicted once the limit is reached.
func (p *Processor) markSeen(print string) {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()

	if p.seen[print] {
		return
	}

	p.seen[print] = true
	p.seenOrder = append(p.seenOrder, print)
	if len(p.seenOrder) > seenBatchLimit {
		oldest := p.seenOrder[0]
		p.seenOrder = p.seenOrder[1:]
		delete(p.seen, oldest)
	}
}

// buildCandidates converts resolver output into persistable match candidates
func (p *Processor) buildCandidates(tenantID string, pairs []models.CandidatePair) []*models.MatchCandidate {
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
	return candidates
}
