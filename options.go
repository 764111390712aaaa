package veridex

import (
	"github.com/hupe1980/veridex/codec"
	"github.com/hupe1980/veridex/embedding"
	"github.com/hupe1980/veridex/persistence"
	"github.com/hupe1980/veridex/scoring"
)

// DefaultDimension is the embedding dimension of the default hashing
// provider, matching common sentence-transformer models.
const DefaultDimension = 384

type options struct {
	provider    embedding.Provider
	model       scoring.Model
	codec       codec.Codec
	compression *persistence.Compression
	logger      *Logger
	ingestLimit int
}

// Option configures a Detector.
type Option func(*options)

// WithEmbeddingProvider sets the embedding provider for both the document
// store and scoring similarity. Defaults to a deterministic hashing
// provider with DefaultDimension dimensions.
func WithEmbeddingProvider(p embedding.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithModel sets a delegated scoring model. Without one, scoring is purely
// rule-based.
func WithModel(m scoring.Model) Option {
	return func(o *options) { o.model = m }
}

// WithCodec configures the codec used for the snapshot document sidecar.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the snapshot vector compression.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) { o.compression = &c }
}

// WithLogger sets the logger. If nil is passed, logging is discarded.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithIngestConcurrency caps concurrent embeddings during batch ingestion.
// Defaults to 4.
func WithIngestConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.ingestLimit = n
		}
	}
}
