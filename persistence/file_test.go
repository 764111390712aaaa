package persistence

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.bin")

	require.NoError(t, SaveToFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("payload"))
		return err
	}))

	var got []byte
	require.NoError(t, LoadFromFile(path, func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	}))
	assert.Equal(t, []byte("payload"), got)
}

func TestSaveToFileWriteFailureLeavesNoTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.bin")

	errBoom := errors.New("boom")
	err := SaveToFile(path, func(io.Writer) error { return errBoom })
	require.ErrorIs(t, err, errBoom)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must be cleaned up")
}

func TestSaveToFileOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.bin")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, SaveToFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestAtomicSaveToDir(t *testing.T) {
	t.Run("AllFilesLand", func(t *testing.T) {
		dir := t.TempDir()

		err := AtomicSaveToDir(dir, map[string]func(io.Writer) error{
			"a.txt": func(w io.Writer) error { _, err := w.Write([]byte("alpha")); return err },
			"b.txt": func(w io.Writer) error { _, err := w.Write([]byte("beta")); return err },
		})
		require.NoError(t, err)

		a, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), a)

		b, err := os.ReadFile(filepath.Join(dir, "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, []byte("beta"), b)
	})

	t.Run("FailureWritesNothing", func(t *testing.T) {
		dir := t.TempDir()

		errBoom := errors.New("boom")
		err := AtomicSaveToDir(dir, map[string]func(io.Writer) error{
			"a.txt": func(w io.Writer) error { _, err := w.Write([]byte("alpha")); return err },
			"b.txt": func(io.Writer) error { return errBoom },
		})
		require.ErrorIs(t, err, errBoom)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "no partial state may remain")
	})

	t.Run("CreatesDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "store")

		err := AtomicSaveToDir(dir, map[string]func(io.Writer) error{
			"a.txt": func(w io.Writer) error { _, err := w.Write([]byte("alpha")); return err },
		})
		require.NoError(t, err)

		_, statErr := os.Stat(filepath.Join(dir, "a.txt"))
		assert.NoError(t, statErr)
	})
}
