package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// WriteVectors writes the binary vector artifact: header, compressed
// float32 block, CRC32 trailer. All vectors must have length dimension.
func WriteVectors(w io.Writer, vectors [][]float32, dimension int, compression Compression) error {
	raw := make([]byte, 0, len(vectors)*dimension*4)
	var scratch [4]byte
	for i, vec := range vectors {
		if len(vec) != dimension {
			return fmt.Errorf("persistence: vector %d has dimension %d, want %d", i, len(vec), dimension)
		}
		for _, f := range vec {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(f))
			raw = append(raw, scratch[:]...)
		}
	}

	payload, err := compress(raw, compression)
	if err != nil {
		return err
	}

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(compression),
		Dimension:   uint32(dimension),
		VectorCount: uint64(len(vectors)),
		PayloadSize: uint64(len(payload)),
	}

	cw := NewChecksumWriter(w)
	if err := binary.Write(cw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("persistence: write header: %w", err)
	}
	if _, err := cw.Write(payload); err != nil {
		return fmt.Errorf("persistence: write payload: %w", err)
	}

	// CRC trailer covers header + payload.
	if err := binary.Write(w, binary.LittleEndian, cw.Sum()); err != nil {
		return fmt.Errorf("persistence: write checksum: %w", err)
	}
	return nil
}

// ReadVectors reads a binary vector artifact written by WriteVectors and
// returns the vectors plus their dimension. Any structural problem
// (bad magic, unsupported version, checksum mismatch, truncation) is
// returned as an error; callers treat it as snapshot corruption.
func ReadVectors(r io.Reader) ([][]float32, int, error) {
	cr := NewChecksumReader(r)

	var header FileHeader
	if err := binary.Read(cr, binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("persistence: read header: %w", err)
	}
	if header.Magic != MagicNumber {
		return nil, 0, ErrInvalidMagic
	}
	if header.Version != Version {
		return nil, 0, ErrInvalidVersion
	}
	if header.Dimension == 0 {
		return nil, 0, fmt.Errorf("persistence: header declares zero dimension")
	}

	payload := make([]byte, header.PayloadSize)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return nil, 0, fmt.Errorf("persistence: read payload: %w", err)
	}

	var expected uint32
	if err := binary.Read(r, binary.LittleEndian, &expected); err != nil {
		return nil, 0, fmt.Errorf("persistence: read checksum: %w", err)
	}
	if err := cr.Verify(expected); err != nil {
		return nil, 0, err
	}

	raw, err := decompress(payload, Compression(header.Compression))
	if err != nil {
		return nil, 0, err
	}

	dimension := int(header.Dimension)
	count := int(header.VectorCount)
	if len(raw) != count*dimension*4 {
		return nil, 0, fmt.Errorf("persistence: payload size %d does not match %d vectors of dimension %d",
			len(raw), count, dimension)
	}

	vectors := make([][]float32, count)
	off := 0
	for i := range vectors {
		vec := make([]float32, dimension)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return vectors, dimension, nil
}

func compress(raw []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return raw, nil
	case CompressionS2:
		return s2.Encode(nil, raw), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("persistence: lz4 compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("persistence: lz4 compress: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, ErrInvalidCompression
	}
}

func decompress(payload []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return payload, nil
	case CompressionS2:
		raw, err := s2.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("persistence: s2 decompress: %w", err)
		}
		return raw, nil
	case CompressionLZ4:
		raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("persistence: lz4 decompress: %w", err)
		}
		return raw, nil
	default:
		return nil, ErrInvalidCompression
	}
}
