// Package blobstore abstracts where snapshot artifacts live. The engine
// writes its index and document files through this interface, so the same
// code can persist to a local directory, an S3 bucket, or a MinIO
// deployment.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction over blob storage for snapshot artifacts.
type Store interface {
	// Put writes a blob under name, replacing any existing blob. The write
	// must be atomic: a concurrent Open sees either the old or the new
	// content, never a partial write.
	Put(ctx context.Context, name string, r io.Reader) error

	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
