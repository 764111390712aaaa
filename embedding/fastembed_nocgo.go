//go:build !cgo

package embedding

import (
	"context"
	"fmt"
)

// FastEmbedConfig holds configuration for the FastEmbed provider.
type FastEmbedConfig struct {
	Model     string
	CacheDir  string
	MaxLength int
}

// FastEmbed is a stub for binaries built without cgo; the ONNX runtime
// requires it. Use the Hashing provider instead.
type FastEmbed struct{}

var _ Provider = (*FastEmbed)(nil)

// NewFastEmbed always fails without cgo.
func NewFastEmbed(_ FastEmbedConfig) (*FastEmbed, error) {
	return nil, fmt.Errorf("%w: binary built without cgo", ErrModelUnavailable)
}

// Embed always fails without cgo.
func (p *FastEmbed) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("%w: binary built without cgo", ErrModelUnavailable)
}

// Dimension returns 0 without cgo.
func (p *FastEmbed) Dimension() int { return 0 }

// Close is a no-op.
func (p *FastEmbed) Close() error { return nil }
