// Package docstore keeps documents, their metadata, and their embeddings
// together. Content is embedded on ingest and searchable by semantic
// similarity; deletes and content updates tombstone old index slots, which a
// Rebuild reclaims.
package docstore

import (
	"github.com/hupe1980/veridex/metadata"
)

// Document is a stored unit of text with its identifying metadata.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata metadata.Metadata `json:"metadata"`
}

// Hit is a single search result.
type Hit struct {
	Document Document
	Score    float32
}

// Update describes a partial change to a document. Nil fields are left
// untouched.
type Update struct {
	Content  *string
	Metadata *metadata.Metadata
}

// Stats is a point-in-time snapshot of store size and inventories.
type Stats struct {
	LiveDocuments int      `json:"live_documents"`
	IndexSize     int      `json:"index_size"`
	Tombstones    int      `json:"tombstones"`
	Dimension     int      `json:"dimension"`
	Companies     []string `json:"companies"`
	Types         []string `json:"types"`
}
