// Package fingerprint produces deterministic content hashes for
// identity records and record batches. The processor uses batch
// fingerprints to skip redelivered messages.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

// Record creates a deterministic fingerprint for a single identity
// record. Field order does not affect the result.
func Record(record *models.IdentityRecord) string {
	fields := record.Fields()

	keys := make([]string, 0, len(fields)+1)
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("id=")
	sb.WriteString(record.EntityID)
	for _, k := range keys {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(fields[k])
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}

// Batch creates a deterministic fingerprint for a record batch.
// Record order does not affect the result, so a reshuffled redelivery
// still hashes the same.
func Batch(records []models.IdentityRecord) string {
	hashes := make([]string, 0, len(records))
	for i := range records {
		hashes = append(hashes, Record(&records[i]))
	}
	sort.Strings(hashes)

	hash := sha256.Sum256([]byte(strings.Join(hashes, ",")))
	return hex.EncodeToString(hash[:])
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}
