// Package metadata defines the document attributes tracked by the store and
// an inverted index over them.
//
// Attributes are a closed struct rather than an open map: every document
// carries exactly a company, a document type, an optional source reference
// and an ingestion timestamp. The closed shape keeps filtering exact and the
// persisted sidecar schema stable.
package metadata

import "time"

// Metadata is the fixed attribute set of an indexed document.
type Metadata struct {
	// Company is the organization the document belongs to. Required.
	Company string `json:"company"`

	// Type is the document category, e.g. "ESG", "Conduct", "Mission". Required.
	Type string `json:"type"`

	// SourceRef points at the upstream artifact (file name, URL, ...). Optional.
	SourceRef string `json:"source_ref,omitempty"`

	// AddedAt is the ingestion time.
	AddedAt time.Time `json:"added_at"`
}

// Filter selects documents by exact attribute match. Zero-valued fields are
// ignored; set fields are combined with AND.
type Filter struct {
	Company string
	Type    string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Company == "" && f.Type == ""
}

// Matches reports whether m satisfies every set field of the filter.
func (f Filter) Matches(m Metadata) bool {
	if f.Company != "" && m.Company != f.Company {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	return true
}
