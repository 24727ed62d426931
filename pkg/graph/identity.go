package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/aster/pkg/models"
)

// IdentityService projects resolved identities into the graph. Approved
// match candidates become SAME_AS links between Identity nodes.
type IdentityService struct {
	client *Client
	logger ectologger.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(client *Client, logger ectologger.Logger) *IdentityService {
	return &IdentityService{
		client: client,
		logger: logger,
	}
}

// UpsertIdentity creates or updates an Identity node for an entity
func (s *IdentityService) UpsertIdentity(ctx context.Context, tenantID string, entityID string) error {
	ctx, span := tracing.StartSpan(ctx, "graph.IdentityService.UpsertIdentity")
	defer span.End()

	cypher := `
		MERGE (i:Identity {entity_id: $entity_id, tenant_id: $tenant_id})
		RETURN i
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"entity_id": entityID,
			"tenant_id": tenantID,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"entity_id": entityID,
		}).Error("Failed to upsert identity in graph")
		return fmt.Errorf("failed to upsert identity in graph: %w", err)
	}

	return nil
}

// LinkSameAs records an approved match as a SAME_AS relationship
// between the two Identity nodes, creating them if needed
func (s *IdentityService) LinkSameAs(ctx context.Context, candidate *models.MatchCandidate) error {
	ctx, span := tracing.StartSpan(ctx, "graph.IdentityService.LinkSameAs")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":           candidate.TenantID,
		"source_entity_id":    candidate.SourceEntityID,
		"candidate_entity_id": candidate.CandidateEntityID,
	})

	cypher := `
		MERGE (a:Identity {entity_id: $source_id, tenant_id: $tenant_id})
		MERGE (b:Identity {entity_id: $candidate_id, tenant_id: $tenant_id})
		MERGE (a)-[r:SAME_AS]-(b)
		SET r.score = $score,
		    r.candidate_id = $match_id,
		    r.approved_at = $approved_at
		RETURN r
	`

	approvedAt := ""
	if candidate.ResolvedAt != nil {
		approvedAt = candidate.ResolvedAt.UTC().Format("2006-01-02T15:04:05Z")
	}

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"source_id":    candidate.SourceEntityID,
			"candidate_id": candidate.CandidateEntityID,
			"tenant_id":    candidate.TenantID,
			"score":        candidate.MatchScore,
			"match_id":     candidate.ID,
			"approved_at":  approvedAt,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to link identities in graph")
		return fmt.Errorf("failed to link identities in graph: %w", err)
	}

	log.Debug("Linked identities in graph")
	return nil
}

// UnlinkSameAs removes the SAME_AS relationship for a rejected match
func (s *IdentityService) UnlinkSameAs(ctx context.Context, tenantID string, sourceID, candidateID string) error {
	ctx, span := tracing.StartSpan(ctx, "graph.IdentityService.UnlinkSameAs")
	defer span.End()

	cypher := `
		MATCH (a:Identity {entity_id: $source_id, tenant_id: $tenant_id})-[r:SAME_AS]-(b:Identity {entity_id: $candidate_id, tenant_id: $tenant_id})
		DELETE r
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"source_id":    sourceID,
			"candidate_id": candidateID,
			"tenant_id":    tenantID,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to unlink identities in graph")
		return fmt.Errorf("failed to unlink identities in graph: %w", err)
	}

	return nil
}

// GetLinkedIdentities returns the entity ids connected to an identity
// through SAME_AS links, up to the given number of hops
func (s *IdentityService) GetLinkedIdentities(ctx context.Context, tenantID string, entityID string, hops int) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.IdentityService.GetLinkedIdentities")
	defer span.End()

	if hops < 1 || hops > 5 {
		hops = 1
	}

	cypher := fmt.Sprintf(`
		MATCH (a:Identity {entity_id: $entity_id, tenant_id: $tenant_id})-[:SAME_AS*1..%d]-(b:Identity)
		WHERE b.tenant_id = $tenant_id
		RETURN DISTINCT b.entity_id AS entity_id
	`, hops)

	records, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"entity_id": entityID,
			"tenant_id": tenantID,
		})
		if err != nil {
			return nil, err
		}

		var linked []string
		for result.Next(ctx) {
			if v, ok := result.Record().Get("entity_id"); ok {
				if id, ok := v.(string); ok {
					linked = append(linked, id)
				}
			}
		}
		return linked, result.Err()
	})

	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to query linked identities")
		return nil, fmt.Errorf("failed to query linked identities: %w", err)
	}

	linked, _ := records.([]string)
	return linked, nil
}
