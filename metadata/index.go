package metadata

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index is an inverted index from attribute values to index positions,
// backed by Roaring bitmaps. It lets a filtered search restrict the
// candidate set with a couple of bitmap intersections instead of checking
// every hit's attributes.
//
// Positions, not document ids, are indexed: the bitmaps line up with the
// vector index slots, so a tombstoned slot simply stays absent.
type Index struct {
	mu        sync.RWMutex
	byCompany map[string]*roaring.Bitmap
	byType    map[string]*roaring.Bitmap
}

// NewIndex creates an empty inverted index.
func NewIndex() *Index {
	return &Index{
		byCompany: make(map[string]*roaring.Bitmap),
		byType:    make(map[string]*roaring.Bitmap),
	}
}

// Add records position under m's attribute values.
func (ix *Index) Add(position uint32, m Metadata) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	addTo(ix.byCompany, m.Company, position)
	addTo(ix.byType, m.Type, position)
}

// Remove drops position from m's attribute postings.
func (ix *Index) Remove(position uint32, m Metadata) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	removeFrom(ix.byCompany, m.Company, position)
	removeFrom(ix.byType, m.Type, position)
}

// Clear resets the index to empty.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.byCompany = make(map[string]*roaring.Bitmap)
	ix.byType = make(map[string]*roaring.Bitmap)
}

// Candidates returns the bitmap of positions matching f, or nil when the
// filter is zero (no restriction). The returned bitmap is a copy and safe to
// mutate.
func (ix *Index) Candidates(f Filter) *roaring.Bitmap {
	if f.IsZero() {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var result *roaring.Bitmap
	intersect := func(bm *roaring.Bitmap) {
		if bm == nil {
			result = roaring.New() // a set field with no postings matches nothing
			return
		}
		if result == nil {
			result = bm.Clone()
			return
		}
		result.And(bm)
	}

	if f.Company != "" {
		intersect(ix.byCompany[f.Company])
	}
	if f.Type != "" && (result == nil || !result.IsEmpty()) {
		intersect(ix.byType[f.Type])
	}
	return result
}

// Companies returns the sorted list of companies with at least one posting.
func (ix *Index) Companies() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return nonEmptyKeys(ix.byCompany)
}

// Types returns the sorted list of document types with at least one posting.
func (ix *Index) Types() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return nonEmptyKeys(ix.byType)
}

func addTo(m map[string]*roaring.Bitmap, key string, position uint32) {
	if key == "" {
		return
	}
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(position)
}

func removeFrom(m map[string]*roaring.Bitmap, key string, position uint32) {
	if key == "" {
		return
	}
	if bm, ok := m[key]; ok {
		bm.Remove(position)
		if bm.IsEmpty() {
			delete(m, key)
		}
	}
}

func nonEmptyKeys(m map[string]*roaring.Bitmap) []string {
	keys := make([]string, 0, len(m))
	for k, bm := range m {
		if !bm.IsEmpty() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
