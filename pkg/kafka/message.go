package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/aster/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Trace context (extracted from Kafka headers)
	TraceParent string
	TraceState  string

	// Parsed content
	RecordBatch *RecordBatchMessage
}

// RecordBatchMessage is a batch of identity records published by an
// upstream ingestion service for resolution.
type RecordBatchMessage struct {
	TenantID  string                  `json:"tenant_id"`
	BatchID   string                  `json:"batch_id"`
	Source    string                  `json:"source,omitempty"`
	Records   []models.IdentityRecord `json:"records"`
	Timestamp time.Time               `json:"timestamp"`
}

// ParseRecordBatch parses the message value as a record batch
func (m *IncomingMessage) ParseRecordBatch() error {
	var batch RecordBatchMessage
	if err := json.Unmarshal(m.Value, &batch); err != nil {
		return err
	}
	m.RecordBatch = &batch
	return nil
}

// GetTenantID returns the tenant ID from the batch, falling back to the
// message header.
func (m *IncomingMessage) GetTenantID() string {
	if m.RecordBatch != nil && m.RecordBatch.TenantID != "" {
		return m.RecordBatch.TenantID
	}
	return m.Headers["tenant_id"]
}

// GetBatchID returns the batch ID, falling back to the message key.
func (m *IncomingMessage) GetBatchID() string {
	if m.RecordBatch != nil && m.RecordBatch.BatchID != "" {
		return m.RecordBatch.BatchID
	}
	return m.Key
}
