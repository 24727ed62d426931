package models

import (
	"time"
)

// MatchCandidate is a persisted potential match between two identity
// records, pending human review.
type MatchCandidate struct {
	ID                string             `json:"id" db:"id"`
	TenantID          string             `json:"tenant_id" db:"tenant_id"`
	SourceEntityID    string             `json:"source_entity_id" db:"source_entity_id"`
	CandidateEntityID string             `json:"candidate_entity_id" db:"candidate_entity_id"`
	MatchScore        float64            `json:"match_score" db:"match_score"`
	Confidence        string             `json:"confidence" db:"confidence"` // high, medium
	FieldScores       map[string]float64 `json:"field_scores" db:"-"` // stored as JSONB, scanned by the repository
	Status            string             `json:"status" db:"status"` // pending, approved, rejected, deferred
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" db:"updated_at"`
	ResolvedAt        *time.Time         `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy        *string            `json:"resolved_by,omitempty" db:"resolved_by"`
}

// MatchCandidate status constants
const (
	MatchCandidateStatusPending  = "pending"
	MatchCandidateStatusApproved = "approved"
	MatchCandidateStatusRejected = "rejected"
	MatchCandidateStatusDeferred = "deferred"
)

// Confidence classifications for a candidate's aggregate score
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// CandidatePair is an unpersisted resolver result: one scored pair from
// a batch resolution run.
type CandidatePair struct {
	Record1ID   string             `json:"record1_id"`
	Record2ID   string             `json:"record2_id"`
	Score       float64            `json:"match_score"`
	Confidence  string             `json:"confidence"`
	FieldScores map[string]float64 `json:"field_scores"`
}

// SimilarityRequest asks for a single-metric or composite comparison.
type SimilarityRequest struct {
	Algorithm string          `json:"algorithm" validate:"required,oneof=jaro_winkler levenshtein jaccard_bigram exact composite"`
	String1   string          `json:"string1,omitempty"`
	String2   string          `json:"string2,omitempty"`
	Record1   *IdentityRecord `json:"record1,omitempty"`
	Record2   *IdentityRecord `json:"record2,omitempty"`
}

// SimilarityResponse is the result of a similarity calculation. For
// composite comparisons FieldScores carries the per-field breakdown and
// Confidence the boosted presentation value.
type SimilarityResponse struct {
	Algorithm   string             `json:"algorithm"`
	Score       float64            `json:"score"`
	FieldScores map[string]float64 `json:"field_scores,omitempty"`
	Confidence  float64            `json:"confidence,omitempty"`
}

// BatchResolutionRequest submits a batch of identity records for
// pairwise resolution.
type BatchResolutionRequest struct {
	Records []IdentityRecord `json:"records" validate:"required,min=1,dive"`
	Persist bool             `json:"persist,omitempty"`
}

// BatchResolutionResponse summarizes a resolver run.
type BatchResolutionResponse struct {
	RecordCount int             `json:"record_count"`
	MatchCount  int             `json:"match_count"`
	Matches     []CandidatePair `json:"matches"`
}

// ResolveCandidateRequest resolves a pending candidate during review.
type ResolveCandidateRequest struct {
	ResolvedBy string `json:"resolved_by" validate:"required"`
}

// MatchCandidateListResponse is the response for listing candidates.
type MatchCandidateListResponse struct {
	Items      []MatchCandidate `json:"items"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}
