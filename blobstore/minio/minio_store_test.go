package minio

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/hupe1980/veridex/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-veridex"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("snapshot bytes")
	require.NoError(t, store.Put(ctx, "vectors.vdx", bytes.NewReader(data)))

	t.Cleanup(func() {
		_ = store.Delete(ctx, "vectors.vdx")
	})

	r, err := store.Open(ctx, "vectors.vdx")
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "vectors.vdx")

	require.NoError(t, store.Delete(ctx, "vectors.vdx"))
	_, err = store.Open(ctx, "vectors.vdx")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, "vectors.vdx"))
}
