package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0, 0},
		{0.5, 0.5, 0.5, 0.5},
		{-1, 0.25, 0, 0.75},
	}
}

func TestVectorsRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionS2, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteVectors(&buf, sampleVectors(), 4, compression))

			vectors, dimension, err := ReadVectors(&buf)
			require.NoError(t, err)
			assert.Equal(t, 4, dimension)
			assert.Equal(t, sampleVectors(), vectors)
		})
	}
}

func TestWriteVectorsRejectsDimensionMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVectors(&buf, [][]float32{{1, 2}}, 4, CompressionNone)
	assert.Error(t, err)
}

func TestReadVectorsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVectors(&buf, nil, 4, CompressionS2))

	vectors, dimension, err := ReadVectors(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, dimension)
	assert.Empty(t, vectors)
}

func TestReadVectorsCorruption(t *testing.T) {
	t.Run("BadMagic", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteVectors(&buf, sampleVectors(), 4, CompressionNone))

		data := buf.Bytes()
		data[0] ^= 0xFF
		_, _, err := ReadVectors(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("FlippedPayloadByte", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteVectors(&buf, sampleVectors(), 4, CompressionNone))

		data := buf.Bytes()
		data[len(data)-8] ^= 0xFF // inside the payload, before the CRC trailer
		_, _, err := ReadVectors(bytes.NewReader(data))
		var mismatch *ChecksumMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("Truncated", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteVectors(&buf, sampleVectors(), 4, CompressionS2))

		data := buf.Bytes()[:buf.Len()/2]
		_, _, err := ReadVectors(bytes.NewReader(data))
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, _, err := ReadVectors(bytes.NewReader([]byte("not a snapshot")))
		assert.Error(t, err)
	})
}
