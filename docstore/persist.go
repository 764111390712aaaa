package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/veridex/blobstore"
	"github.com/hupe1980/veridex/codec"
	"github.com/hupe1980/veridex/index"
	"github.com/hupe1980/veridex/metadata"
	"github.com/hupe1980/veridex/persistence"
)

// docsSidecar is the schema of the documents.json artifact. The vector
// snapshot (vectors.vdx) carries the embeddings; this file carries
// everything needed to rebuild the maps on load.
type docsSidecar struct {
	Codec     string            `json:"codec"`
	Dimension int               `json:"dimension"`
	Documents []Document        `json:"documents"`
	Positions map[string]uint32 `json:"positions"`
}

// Save writes the paired snapshot (vectors.vdx + documents.json) to dir.
// Both files land atomically or neither does.
func (s *Store) Save(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	vectors, sidecar := s.snapshotLocked()
	s.mu.RUnlock()

	return persistence.AtomicSaveToDir(dir, map[string]func(io.Writer) error{
		persistence.VectorsFile: func(w io.Writer) error {
			return persistence.WriteVectors(w, vectors, sidecar.Dimension, s.compression)
		},
		persistence.DocumentsFile: func(w io.Writer) error {
			data, err := s.codec.Marshal(sidecar)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	})
}

// SaveToBlobStore writes the paired snapshot through a blobstore, for
// object-storage deployments.
func (s *Store) SaveToBlobStore(ctx context.Context, bs blobstore.Store) error {
	s.mu.RLock()
	vectors, sidecar := s.snapshotLocked()
	s.mu.RUnlock()

	var vectorsBuf bytes.Buffer
	if err := persistence.WriteVectors(&vectorsBuf, vectors, sidecar.Dimension, s.compression); err != nil {
		return err
	}

	data, err := s.codec.Marshal(sidecar)
	if err != nil {
		return err
	}

	if err := bs.Put(ctx, persistence.VectorsFile, &vectorsBuf); err != nil {
		return err
	}
	return bs.Put(ctx, persistence.DocumentsFile, bytes.NewReader(data))
}

// Load replaces the store's contents with the snapshot in dir. A missing
// snapshot leaves the store empty with no error. A snapshot that fails any
// validation resets the store to empty and returns ErrCorruptSnapshot:
// the snapshot is a derived artifact, so starting over is safe.
func (s *Store) Load(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vectorsPath := filepath.Join(dir, persistence.VectorsFile)
	docsPath := filepath.Join(dir, persistence.DocumentsFile)

	if _, err := os.Stat(vectorsPath); os.IsNotExist(err) {
		if _, err := os.Stat(docsPath); os.IsNotExist(err) {
			return nil
		}
	}

	var vectors [][]float32
	var dimension int
	err := persistence.LoadFromFile(vectorsPath, func(r io.Reader) error {
		var err error
		vectors, dimension, err = persistence.ReadVectors(r)
		return err
	})
	if err != nil {
		return s.resetCorrupt(fmt.Errorf("read %s: %w", persistence.VectorsFile, err))
	}

	data, err := os.ReadFile(docsPath)
	if err != nil {
		return s.resetCorrupt(fmt.Errorf("read %s: %w", persistence.DocumentsFile, err))
	}

	return s.restore(ctx, vectors, dimension, data)
}

// LoadFromBlobStore replaces the store's contents with the snapshot held in
// a blobstore. Semantics match Load.
func (s *Store) LoadFromBlobStore(ctx context.Context, bs blobstore.Store) error {
	vr, err := bs.Open(ctx, persistence.VectorsFile)
	if errors.Is(err, blobstore.ErrNotFound) {
		dr, derr := bs.Open(ctx, persistence.DocumentsFile)
		if errors.Is(derr, blobstore.ErrNotFound) {
			return nil // no snapshot yet
		}
		if derr == nil {
			_ = dr.Close()
		}
		return s.resetCorrupt(fmt.Errorf("missing %s", persistence.VectorsFile))
	}
	if err != nil {
		return err
	}
	vectors, dimension, err := persistence.ReadVectors(vr)
	_ = vr.Close()
	if err != nil {
		return s.resetCorrupt(fmt.Errorf("read %s: %w", persistence.VectorsFile, err))
	}

	dr, err := bs.Open(ctx, persistence.DocumentsFile)
	if err != nil {
		return s.resetCorrupt(fmt.Errorf("open %s: %w", persistence.DocumentsFile, err))
	}
	data, err := io.ReadAll(dr)
	_ = dr.Close()
	if err != nil {
		return s.resetCorrupt(fmt.Errorf("read %s: %w", persistence.DocumentsFile, err))
	}

	return s.restore(ctx, vectors, dimension, data)
}

// snapshotLocked collects the full index vectors and the sidecar under the
// caller's lock.
func (s *Store) snapshotLocked() ([][]float32, docsSidecar) {
	vectors := make([][]float32, 0, s.idx.Len())
	for position := uint32(0); int(position) < s.idx.Len(); position++ {
		v, _ := s.idx.VectorAt(position)
		vectors = append(vectors, v)
	}

	ids := s.liveIDsByPosition()
	docs := make([]Document, 0, len(ids))
	positions := make(map[string]uint32, len(ids))
	for _, id := range ids {
		docs = append(docs, s.docs[id])
		positions[id] = s.idToPos[id]
	}

	return vectors, docsSidecar{
		Codec:     s.codec.Name(),
		Dimension: s.idx.Dimension(),
		Documents: docs,
		Positions: positions,
	}
}

// restore validates the snapshot pieces and swaps them in atomically.
func (s *Store) restore(ctx context.Context, vectors [][]float32, dimension int, sidecarData []byte) error {
	var sidecar docsSidecar
	if err := s.codec.Unmarshal(sidecarData, &sidecar); err != nil {
		return s.resetCorrupt(fmt.Errorf("decode %s: %w", persistence.DocumentsFile, err))
	}

	// The sidecar names the codec that wrote it. Decode it again with that
	// codec when it differs from the configured one, so old snapshots stay
	// readable after a codec change.
	if sidecar.Codec != "" && sidecar.Codec != s.codec.Name() {
		c, ok := codec.ByName(sidecar.Codec)
		if !ok {
			return s.resetCorrupt(fmt.Errorf("unknown sidecar codec %q", sidecar.Codec))
		}
		sidecar = docsSidecar{}
		if err := c.Unmarshal(sidecarData, &sidecar); err != nil {
			return s.resetCorrupt(fmt.Errorf("decode %s: %w", persistence.DocumentsFile, err))
		}
	}

	if dimension != s.provider.Dimension() {
		return s.resetCorrupt(fmt.Errorf("snapshot dimension %d, provider dimension %d", dimension, s.provider.Dimension()))
	}
	if sidecar.Dimension != dimension {
		return s.resetCorrupt(fmt.Errorf("sidecar dimension %d, vectors dimension %d", sidecar.Dimension, dimension))
	}
	if len(sidecar.Documents) != len(sidecar.Positions) {
		return s.resetCorrupt(fmt.Errorf("%d documents but %d positions", len(sidecar.Documents), len(sidecar.Positions)))
	}

	idx, err := index.New(dimension)
	if err != nil {
		return err
	}
	for _, v := range vectors {
		if _, err := idx.Add(ctx, v); err != nil {
			return s.resetCorrupt(fmt.Errorf("restore vectors: %w", err))
		}
	}

	docs := make(map[string]Document, len(sidecar.Documents))
	idToPos := make(map[string]uint32, len(sidecar.Documents))
	posToID := make(map[uint32]string, len(sidecar.Documents))
	meta := metadata.NewIndex()

	for _, doc := range sidecar.Documents {
		position, ok := sidecar.Positions[doc.ID]
		if !ok {
			return s.resetCorrupt(fmt.Errorf("document %s has no position", doc.ID))
		}
		if int(position) >= len(vectors) {
			return s.resetCorrupt(fmt.Errorf("document %s at position %d, index size %d", doc.ID, position, len(vectors)))
		}
		if _, dup := posToID[position]; dup {
			return s.resetCorrupt(fmt.Errorf("position %d mapped twice", position))
		}
		if _, dup := docs[doc.ID]; dup {
			return s.resetCorrupt(fmt.Errorf("document %s listed twice", doc.ID))
		}

		docs[doc.ID] = doc
		idToPos[doc.ID] = position
		posToID[position] = doc.ID
		meta.Add(position, doc.Metadata)
	}

	s.mu.Lock()
	s.idx = idx
	s.docs = docs
	s.idToPos = idToPos
	s.posToID = posToID
	s.meta = meta
	s.mu.Unlock()

	s.logger.Info("snapshot loaded", "documents", len(docs), "index_size", len(vectors))
	return nil
}

// resetCorrupt clears the store and reports the corruption. The store is
// usable (empty) afterwards.
func (s *Store) resetCorrupt(cause error) error {
	idx, err := index.New(s.provider.Dimension())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.idx = idx
	s.docs = make(map[string]Document)
	s.idToPos = make(map[string]uint32)
	s.posToID = make(map[uint32]string)
	s.meta = metadata.NewIndex()
	s.mu.Unlock()

	s.logger.Error("snapshot corrupt, store reset to empty", "cause", cause)
	return fmt.Errorf("%w: %v", ErrCorruptSnapshot, cause)
}
