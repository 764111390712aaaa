package veridex

import (
	"errors"
	"fmt"

	"github.com/hupe1980/veridex/docstore"
	"github.com/hupe1980/veridex/index"
)

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateID is returned when a document id already exists.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrIndexCorrupt is returned by Load when the snapshot fails
	// validation. The detector has been reset to an empty, usable state.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrInvalidK is returned when a result count is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// translateError unifies subpackage errors into the package's public error
// surface.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, docstore.ErrDuplicateID) {
		return fmt.Errorf("%w: %w", ErrDuplicateID, err)
	}
	if errors.Is(err, docstore.ErrCorruptSnapshot) {
		return fmt.Errorf("%w: %w", ErrIndexCorrupt, err)
	}
	if errors.Is(err, index.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
