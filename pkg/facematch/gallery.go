// Package facematch holds the in-memory face embedding gallery and the
// cosine-similarity match engine that queries it.
package facematch

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Ramsey-B/aster/pkg/models"
)

// ErrDimensionMismatch is returned when a vector's dimension does not
// match the gallery's.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Gallery is an N×D matrix of face embeddings with parallel metadata.
// Safe for concurrent use: reads share a lock, Load and Append are
// exclusive. Rows are copied and normalized to unit length exactly once
// on the way in, so snapshots handed to readers are never rewritten.
type Gallery struct {
	mu      sync.RWMutex
	vectors [][]float64
	entries []models.GalleryEntry
	dim     int
}

// NewGallery creates an empty gallery.
func NewGallery() *Gallery {
	return &Gallery{}
}

// Load replaces the gallery contents. All vectors must share one
// dimension.
func (g *Gallery) Load(vectors [][]float64, entries []models.GalleryEntry) error {
	if len(vectors) != len(entries) {
		return fmt.Errorf("vector count %d does not match entry count %d", len(vectors), len(entries))
	}

	dim := 0
	for i, vec := range vectors {
		if i == 0 {
			dim = len(vec)
			continue
		}
		if len(vec) != dim {
			return fmt.Errorf("row %d has dimension %d, want %d: %w", i, len(vec), dim, ErrDimensionMismatch)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.vectors = normalizedCopy(vectors)
	g.entries = append([]models.GalleryEntry(nil), entries...)
	g.dim = dim
	return nil
}

// Append adds entries to the gallery. Vectors must match the gallery's
// existing dimension; an empty gallery adopts the first vector's.
func (g *Gallery) Append(vectors [][]float64, entries []models.GalleryEntry) error {
	if len(vectors) != len(entries) {
		return fmt.Errorf("vector count %d does not match entry count %d", len(vectors), len(entries))
	}
	if len(vectors) == 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	dim := g.dim
	if len(g.vectors) == 0 {
		dim = len(vectors[0])
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("row %d has dimension %d, want %d: %w", i, len(vec), dim, ErrDimensionMismatch)
		}
	}

	g.vectors = append(g.vectors, normalizedCopy(vectors)...)
	g.entries = append(g.entries, entries...)
	g.dim = dim
	return nil
}

// Size returns the number of enrolled faces.
func (g *Gallery) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vectors)
}

// Dim returns the gallery's embedding dimension, 0 when empty.
func (g *Gallery) Dim() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.vectors) == 0 {
		return 0
	}
	return g.dim
}

// Entries returns a copy of the gallery metadata.
func (g *Gallery) Entries() []models.GalleryEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]models.GalleryEntry, len(g.entries))
	copy(out, g.entries)
	return out
}

// snapshot returns the matrix and metadata under lock. Rows were
// normalized on insert and are never mutated afterwards, so readers can
// iterate the returned slices without holding the lock.
func (g *Gallery) snapshot() ([][]float64, []models.GalleryEntry, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vectors, g.entries, g.dim
}

// normalizedCopy copies each row into a fresh slice scaled to unit
// length. Zero rows stay zero.
func normalizedCopy(vectors [][]float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, vec := range vectors {
		row := make([]float64, len(vec))
		copy(row, vec)

		var sum float64
		for _, v := range row {
			sum += v * v
		}
		norm := math.Sqrt(sum)
		if norm != 0 {
			for j := range row {
				row[j] /= norm
			}
		}
		out[i] = row
	}
	return out
}
