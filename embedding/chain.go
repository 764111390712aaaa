package embedding

import (
	"context"
	"fmt"
	"log/slog"
)

// Chain tries a primary provider and falls back to a secondary one when the
// primary fails. A failed primary call is a quality degradation, not a hard
// failure, so it is logged at warn level and the fallback result is returned.
type Chain struct {
	primary  Provider
	fallback Provider
	logger   *slog.Logger
}

var _ Provider = (*Chain)(nil)

// NewChain composes primary and fallback into a single provider.
// Both providers must have the same output dimension.
func NewChain(primary, fallback Provider, logger *slog.Logger) (*Chain, error) {
	if primary == nil || fallback == nil {
		return nil, fmt.Errorf("embedding: chain requires both primary and fallback providers")
	}
	if primary.Dimension() != fallback.Dimension() {
		return nil, fmt.Errorf("embedding: chain dimension mismatch: primary=%d fallback=%d",
			primary.Dimension(), fallback.Dimension())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{primary: primary, fallback: fallback, logger: logger}, nil
}

// Embed returns the primary embedding, or the fallback embedding when the
// primary fails. Context cancellation is not retried on the fallback.
func (c *Chain) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := c.primary.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.logger.Warn("primary embedding provider failed, using fallback",
		"error", err,
	)
	return c.fallback.Embed(ctx, text)
}

// Dimension returns the shared output dimension.
func (c *Chain) Dimension() int { return c.primary.Dimension() }

// Close closes both providers, returning the first error encountered.
func (c *Chain) Close() error {
	err := c.primary.Close()
	if ferr := c.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
