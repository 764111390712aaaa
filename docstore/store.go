package docstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/veridex/codec"
	"github.com/hupe1980/veridex/distance"
	"github.com/hupe1980/veridex/embedding"
	"github.com/hupe1980/veridex/index"
	"github.com/hupe1980/veridex/metadata"
	"github.com/hupe1980/veridex/persistence"
)

// searchMultiplier controls over-fetching from the vector index so that
// tombstoned slots and filtered-out candidates can be skipped without
// starving the result set.
const searchMultiplier = 2

// promiseTerms is the lexicon used by CompanyPromises to keep only
// commitment-like content in its results.
var promiseTerms = []string{
	"commit", "promise", "pledge", "value", "mission", "vision", "responsibility",
}

type options struct {
	codec       codec.Codec
	compression persistence.Compression
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*options)

// WithCodec configures the codec used for the document sidecar.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the vector snapshot compression.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the logger. If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = noopLogger()
		}
		o.logger = l
	}
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Store maps document ids to content, metadata, and vector index positions.
//
// Index positions are append-only: deleting or re-embedding a document
// leaves its old slot behind as a tombstone until Rebuild compacts the
// index. The id→position and position→id maps are kept strictly mutual.
type Store struct {
	provider embedding.Provider

	mu      sync.RWMutex
	idx     *index.Flat
	meta    *metadata.Index
	docs    map[string]Document
	idToPos map[string]uint32
	posToID map[uint32]string

	codec       codec.Codec
	compression persistence.Compression
	logger      *slog.Logger
}

// New creates an empty Store embedding content with the given provider.
func New(provider embedding.Provider, optFns ...Option) (*Store, error) {
	opts := options{
		codec:       codec.Default,
		compression: persistence.CompressionS2,
		logger:      noopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	idx, err := index.New(provider.Dimension())
	if err != nil {
		return nil, err
	}

	return &Store{
		provider:    provider,
		idx:         idx,
		meta:        metadata.NewIndex(),
		docs:        make(map[string]Document),
		idToPos:     make(map[string]uint32),
		posToID:     make(map[uint32]string),
		codec:       opts.codec,
		compression: opts.compression,
		logger:      opts.logger,
	}, nil
}

// AddDocument embeds content and stores the document under id.
// Returns ErrDuplicateID if the id already exists.
func (s *Store) AddDocument(ctx context.Context, id, content string, meta metadata.Metadata) error {
	if id == "" {
		return fmt.Errorf("docstore: empty document id")
	}

	s.mu.RLock()
	_, exists := s.docs[id]
	s.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	// Embedding can be slow; do it before taking the write lock.
	vector, err := s.embed(ctx, content)
	if err != nil {
		return err
	}

	if meta.AddedAt.IsZero() {
		meta.AddedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another writer may have claimed the id while we embedded.
	if _, exists := s.docs[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	position, err := s.idx.Add(ctx, vector)
	if err != nil {
		return err
	}

	s.docs[id] = Document{ID: id, Content: content, Metadata: meta}
	s.idToPos[id] = position
	s.posToID[position] = id
	s.meta.Add(position, meta)

	s.logger.Debug("document added", "id", id, "position", position, "company", meta.Company)
	return nil
}

// Document returns the stored document for id.
func (s *Store) Document(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

// UpdateDocument applies a partial update. A content change re-embeds the
// document into a new index position and tombstones the old one; a
// metadata-only change leaves the index untouched.
func (s *Store) UpdateDocument(ctx context.Context, id string, u Update) error {
	if u.Content == nil && u.Metadata == nil {
		return nil
	}

	var vector []float32
	if u.Content != nil {
		s.mu.RLock()
		_, exists := s.docs[id]
		s.mu.RUnlock()
		if !exists {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		var err error
		vector, err = s.embed(ctx, *u.Content)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	oldPos := s.idToPos[id]
	oldMeta := doc.Metadata

	if u.Metadata != nil {
		meta := *u.Metadata
		if meta.AddedAt.IsZero() {
			meta.AddedAt = oldMeta.AddedAt
		}
		doc.Metadata = meta
	}

	if u.Content != nil {
		doc.Content = *u.Content

		position, err := s.idx.Add(ctx, vector)
		if err != nil {
			return err
		}

		// Old slot becomes a tombstone: drop its reverse mapping and
		// metadata postings, leave the vector in place.
		delete(s.posToID, oldPos)
		s.meta.Remove(oldPos, oldMeta)

		s.idToPos[id] = position
		s.posToID[position] = id
		s.meta.Add(position, doc.Metadata)
	} else if u.Metadata != nil {
		s.meta.Remove(oldPos, oldMeta)
		s.meta.Add(oldPos, doc.Metadata)
	}

	s.docs[id] = doc
	return nil
}

// DeleteDocument removes the document. Its index slot remains as a
// tombstone until the next Rebuild.
func (s *Store) DeleteDocument(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	position := s.idToPos[id]
	delete(s.docs, id)
	delete(s.idToPos, id)
	delete(s.posToID, position)
	s.meta.Remove(position, doc.Metadata)

	s.logger.Debug("document deleted", "id", id, "position", position)
	return nil
}

// Search embeds the query and returns up to k live documents by descending
// inner product, restricted by filter when it is non-zero.
func (s *Store) Search(ctx context.Context, query string, k int, filter metadata.Filter) ([]Hit, error) {
	if k <= 0 {
		return nil, index.ErrInvalidK
	}

	vector, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates, err := s.idx.Search(ctx, vector, k, searchMultiplier)
	if err != nil {
		return nil, err
	}

	allowed := s.meta.Candidates(filter)

	hits := make([]Hit, 0, k)
	for _, c := range candidates {
		id, live := s.posToID[c.Position]
		if !live {
			continue // tombstone
		}
		if allowed != nil && !allowed.Contains(c.Position) {
			continue
		}
		hits = append(hits, Hit{Document: s.docs[id], Score: c.Score})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

// CompanyPromises retrieves up to limit documents for company that read
// like commitments on the given topic. The semantic query is widened with
// commitment vocabulary and results are post-filtered lexically.
func (s *Store) CompanyPromises(ctx context.Context, company, topic string, limit int) ([]Hit, error) {
	if limit <= 0 {
		return nil, index.ErrInvalidK
	}

	query := company + " " + topic + " promises commitments values ethics sustainability"

	hits, err := s.Search(ctx, query, limit*2, metadata.Filter{Company: company})
	if err != nil {
		return nil, err
	}

	promises := make([]Hit, 0, limit)
	for _, hit := range hits {
		if !containsAny(hit.Document.Content, promiseTerms) {
			continue
		}
		promises = append(promises, hit)
		if len(promises) == limit {
			break
		}
	}
	return promises, nil
}

// Rebuild compacts the index: live vectors are copied into a fresh index
// with renumbered positions and all tombstones are dropped. Exclusive with
// every other operation.
func (s *Store) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh, err := index.New(s.idx.Dimension())
	if err != nil {
		return err
	}

	ids := s.liveIDsByPosition()

	idToPos := make(map[string]uint32, len(ids))
	posToID := make(map[uint32]string, len(ids))
	meta := metadata.NewIndex()

	for _, id := range ids {
		vector, ok := s.idx.VectorAt(s.idToPos[id])
		if !ok {
			return fmt.Errorf("docstore: missing vector for %s", id)
		}

		position, err := fresh.Add(ctx, vector)
		if err != nil {
			return err
		}

		idToPos[id] = position
		posToID[position] = id
		meta.Add(position, s.docs[id].Metadata)
	}

	dropped := s.idx.Len() - fresh.Len()
	s.idx = fresh
	s.idToPos = idToPos
	s.posToID = posToID
	s.meta = meta

	s.logger.Info("index rebuilt", "live", fresh.Len(), "tombstones_dropped", dropped)
	return nil
}

// TombstoneRatio reports the fraction of index slots that are tombstones.
func (s *Store) TombstoneRatio() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.idx.Len()
	if total == 0 {
		return 0
	}
	return float64(total-len(s.docs)) / float64(total)
}

// Stats returns counts and inventories for the current store state.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		LiveDocuments: len(s.docs),
		IndexSize:     s.idx.Len(),
		Tombstones:    s.idx.Len() - len(s.docs),
		Dimension:     s.idx.Dimension(),
		Companies:     s.meta.Companies(),
		Types:         s.meta.Types(),
	}
}

// Companies lists all companies with at least one live document.
func (s *Store) Companies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta.Companies()
}

// Len returns the number of live documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close releases the embedding provider.
func (s *Store) Close() error {
	return s.provider.Close()
}

func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := s.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("docstore: embed: %w", err)
	}

	// Unit-length vectors make inner product equal cosine similarity.
	// Zero vectors (empty text) are stored as-is.
	if normalized, ok := distance.NormalizeL2Copy(vector); ok {
		return normalized, nil
	}
	return vector, nil
}

// liveIDsByPosition returns live ids ordered by their current index
// position, which keeps Rebuild and Save deterministic.
// Callers must hold at least a read lock.
func (s *Store) liveIDsByPosition() []string {
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.idToPos[ids[i]] < s.idToPos[ids[j]]
	})
	return ids
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
