package docstore

import "errors"

var (
	// ErrDuplicateID is returned when adding a document whose id already
	// exists in the store.
	ErrDuplicateID = errors.New("docstore: duplicate document id")

	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrCorruptSnapshot is returned by Load when a snapshot fails
	// validation. The store has been reset to empty when this is returned.
	ErrCorruptSnapshot = errors.New("docstore: corrupt snapshot")
)
