// Package persistence implements the on-disk snapshot format of the document
// store.
//
// A snapshot is a pair of artifacts that are only valid together:
//
//   - vectors.vdx: binary vector block (header, compressed float32 data,
//     CRC32 trailer)
//   - documents.json: codec-encoded sidecar (documents, id-to-position
//     mapping, codec name)
//
// Both files are written atomically as a unit; loading one without a
// matching other is treated as corruption and the store resets to empty.
package persistence

import "errors"

const (
	// MagicNumber identifies veridex vector files (ASCII "VDX0").
	MagicNumber = 0x56445830

	// Version is the current vector file format version.
	Version = 0x00010000

	// VectorsFile is the binary vector artifact name within a snapshot dir.
	VectorsFile = "vectors.vdx"

	// DocumentsFile is the sidecar artifact name within a snapshot dir.
	DocumentsFile = "documents.json"
)

// Compression identifies the codec applied to the vector data block.
// It is recorded in the file header so readers never have to guess.
type Compression uint8

const (
	// CompressionNone stores raw little-endian float32 data.
	CompressionNone Compression = 0
	// CompressionS2 applies s2 block compression (klauspost/compress).
	CompressionS2 Compression = 1
	// CompressionLZ4 applies lz4 block compression.
	CompressionLZ4 Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidMagic is returned when a vector file has the wrong magic number.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("unsupported version")

	// ErrInvalidCompression is returned for unknown compression codes.
	ErrInvalidCompression = errors.New("unsupported compression")
)

// FileHeader is the fixed-size header at the start of every vector file.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	Padding     [3]byte
	Dimension   uint32
	VectorCount uint64
	PayloadSize uint64 // compressed size of the data block in bytes
}
