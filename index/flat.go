// Package index provides the flat inner-product index behind the document
// store.
//
// The index is deliberately append-only: vectors are immutable once inserted
// and positions are assigned monotonically, never reused while the index is
// live. Updates and deletes are modeled one layer up (the document store
// drops its id-to-position mapping, leaving the slot as an unreachable
// tombstone), and space is reclaimed by building a fresh index from the live
// vectors. This trades index bloat for O(1) deletes and a trivially
// stable position space.
package index

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/veridex/distance"
)

// Candidate is a raw search hit: a slot position and its inner-product score
// against the query. For normalized vectors the score equals cosine
// similarity, in [-1, 1].
type Candidate struct {
	Position uint32
	Score    float32
}

// flatState holds the immutable vector slice for lock-free reads.
type flatState struct {
	vectors [][]float32
}

// Flat is a brute-force inner-product index.
// It uses a copy-on-write pattern so readers never observe a torn state:
// a vector is either fully present in a published state or not at all.
type Flat struct {
	state     atomic.Pointer[flatState]
	writeMu   sync.Mutex // serializes Add
	dimension int
}

// New creates a flat index with a fixed vector dimensionality.
func New(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}

	f := &Flat{dimension: dimension}
	f.state.Store(&flatState{vectors: make([][]float32, 0)})
	return f, nil
}

// Dimension returns the fixed vector dimensionality.
func (f *Flat) Dimension() int { return f.dimension }

// Len returns the number of physical slots, including tombstoned ones.
func (f *Flat) Len() int {
	return len(f.state.Load().vectors)
}

// Add appends a vector and returns its position, which equals the slot count
// before insertion. The vector is copied; callers may reuse the slice.
func (f *Flat) Add(ctx context.Context, v []float32) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, ErrEmptyVector
	}
	if len(v) != f.dimension {
		return 0, &ErrDimensionMismatch{Expected: f.dimension, Actual: len(v)}
	}

	vec := make([]float32, len(v))
	copy(vec, v)

	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	old := f.state.Load()
	next := &flatState{vectors: make([][]float32, len(old.vectors), len(old.vectors)+1)}
	copy(next.vectors, old.vectors)
	next.vectors = append(next.vectors, vec)

	position := uint32(len(old.vectors))
	f.state.Store(next)
	return position, nil
}

// VectorAt returns the vector stored at position.
// The returned slice is shared internal state and must not be modified.
func (f *Flat) VectorAt(position uint32) ([]float32, bool) {
	st := f.state.Load()
	if int(position) >= len(st.vectors) {
		return nil, false
	}
	return st.vectors[position], true
}

// Search returns up to min(k*multiplier, Len()) candidates ordered by
// descending inner-product score. The over-fetch leaves room for the caller
// to drop tombstoned or filtered-out positions without under-filling its
// final k results. A multiplier below 1 is treated as 1.
//
// Searching an empty index returns an empty result, not an error.
func (f *Flat) Search(ctx context.Context, query []float32, k, multiplier int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if multiplier < 1 {
		multiplier = 1
	}

	if len(query) != f.dimension {
		return nil, &ErrDimensionMismatch{Expected: f.dimension, Actual: len(query)}
	}

	st := f.state.Load()
	if len(st.vectors) == 0 {
		return nil, nil
	}

	n := k * multiplier
	if n > len(st.vectors) {
		n = len(st.vectors)
	}

	// Keep the n best candidates in a min-heap so the worst of the kept set
	// is evicted first.
	top := make(candidateHeap, 0, n)
	heap.Init(&top)

	for pos, vec := range st.vectors {
		score := distance.Dot(query, vec)

		if top.Len() < n {
			heap.Push(&top, Candidate{Position: uint32(pos), Score: score})
			continue
		}
		if score > top[0].Score {
			top[0] = Candidate{Position: uint32(pos), Score: score}
			heap.Fix(&top, 0)
		}
	}

	results := make([]Candidate, top.Len())
	for i := top.Len() - 1; i >= 0; i-- {
		results[i] = heap.Pop(&top).(Candidate)
	}
	return results, nil
}

// candidateHeap is a min-heap by score; the root is the weakest candidate.
type candidateHeap []Candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)         { *h = append(*h, x.(Candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
