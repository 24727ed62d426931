// Package embedding produces deterministic hash-based embedding
// vectors. Not a learned model: the same input bytes always map to the
// same vector, which is enough to match against a gallery built the
// same way.
package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// DefaultDim is the embedding dimension used when no gallery dictates
// one.
const DefaultDim = 128

// Generator creates deterministic embeddings from raw bytes.
type Generator struct {
	dim int
}

// NewGenerator creates a Generator producing vectors of the given
// dimension. Non-positive dims fall back to DefaultDim.
func NewGenerator(dim int) *Generator {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Generator{dim: dim}
}

// Dim returns the generator's output dimension.
func (g *Generator) Dim() int {
	return g.dim
}

// Generate maps input bytes to a unit-length vector of g.dim floats.
// The SHA-256 digest of the input seeds a byte stream of
// SHA-256(seed ‖ counter); each stream byte becomes b/255 - 0.5. The
// result is L2-normalized; a zero-norm vector is returned unchanged.
func (g *Generator) Generate(data []byte) []float64 {
	return GenerateDim(data, g.dim)
}

// GenerateDim is Generate with an explicit dimension, for callers that
// must match a loaded gallery's dimension.
func GenerateDim(data []byte, dim int) []float64 {
	if dim <= 0 {
		dim = DefaultDim
	}

	seed := sha256.Sum256(data)

	vec := make([]float64, 0, dim)
	block := make([]byte, len(seed)+4)
	copy(block, seed[:])

	for counter := uint32(0); len(vec) < dim; counter++ {
		binary.LittleEndian.PutUint32(block[len(seed):], counter)
		h := sha256.Sum256(block)
		for _, b := range h {
			vec = append(vec, float64(b)/255.0-0.5)
			if len(vec) >= dim {
				break
			}
		}
	}

	return normalize(vec)
}

func normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
