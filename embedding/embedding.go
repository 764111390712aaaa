// Package embedding maps free text to fixed-dimension float32 vectors.
//
// Two providers are available: FastEmbed runs a local ONNX sentence
// transformer, and Hashing is a deterministic bag-of-words fallback that
// needs no model files. Chain composes them so that ingestion and search
// keep working, at reduced quality, when the learned model is unavailable.
package embedding

import (
	"context"
	"errors"
)

var (
	// ErrEmbeddingFailed is returned when a provider cannot produce a vector.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrModelUnavailable is returned by constructors when the learned model
	// cannot be initialized (missing model files, no cgo, ...).
	ErrModelUnavailable = errors.New("embedding model unavailable")
)

// Provider maps text to a fixed-dimension vector.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Embed returns the vector for the given text. The returned slice has
	// exactly Dimension() elements.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the fixed output dimensionality.
	Dimension() int

	// Close releases any resources held by the provider.
	Close() error
}
