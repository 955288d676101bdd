// Package hash implements a deterministic, offline embedder that derives
// vectors from SHA-256 digests of the input text.
package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// normEpsilon guards normalization against an all-zero digest stream.
const normEpsilon = 1e-9

// Embedder maps text to a unit-norm vector. Safe for concurrent use.
type Embedder struct {
	dim int
}

// NewEmbedder creates a hash embedder producing domain.EmbeddingDim components.
func NewEmbedder() *Embedder {
	return &Embedder{dim: domain.EmbeddingDim}
}

// Dimensions returns the vector length.
func (e *Embedder) Dimensions() int { return e.dim }

// Embed implements domain.Embedder. Invalid UTF-8 is the only failure.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if !utf8.ValidString(text) {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: text is not valid UTF-8: %w", domain.ErrInvalidInput)
	}
	return domain.EmbeddingResult{Embedding: e.vector(text)}, nil
}

// BatchEmbed implements domain.BatchEmbedder. Each vector equals Embed on the same text.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed [%d]: %w", i, err)
		}
		out[i] = res.Embedding
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

// vector tiles 2-byte little-endian windows of a counter-extended digest
// stream into dim fixed-point components in [0,1), then normalizes.
func (e *Embedder) vector(text string) []float32 {
	raw := make([]float64, e.dim)
	var block [sha256.Size]byte
	for i := range raw {
		w := i % (sha256.Size / 2)
		if w == 0 {
			block = digest(text, uint32(i/(sha256.Size/2)))
		}
		raw[i] = float64(binary.LittleEndian.Uint16(block[2*w:])) / 65536.0
	}

	var sum float64
	for _, x := range raw {
		sum += x * x
	}
	norm := math.Sqrt(sum) + normEpsilon

	vec := make([]float32, e.dim)
	for i, x := range raw {
		vec[i] = float32(x / norm)
	}
	return vec
}

// digest returns block n of the stream: sha256(text) for n = 0,
// sha256(text || uint32be(n)) after that.
func digest(text string, n uint32) [sha256.Size]byte {
	if n == 0 {
		return sha256.Sum256([]byte(text))
	}
	buf := make([]byte, len(text)+4)
	copy(buf, text)
	binary.BigEndian.PutUint32(buf[len(text):], n)
	return sha256.Sum256(buf)
}
