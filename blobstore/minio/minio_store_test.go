package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/hupe1980/bucketvec/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelName(t *testing.T) {
	tests := []struct {
		key, prefix, want string
	}{
		{"snapshots/a.bvec", "snapshots/", "a.bvec"},
		{"snapshots/a.bvec", "snapshots", "a.bvec"},
		{"a.bvec", "", "a.bvec"},
		{"snapshots/dir/b", "snapshots", "dir/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relName(tt.key, tt.prefix), tt.key)
	}
}

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, "b", "snapshots/")
	assert.Equal(t, "snapshots/a.bvec", s.key("a.bvec"))
	assert.Equal(t, "snapshots", s.key(""))
}

func TestByteRange(t *testing.T) {
	tests := []struct {
		name        string
		off         int64
		n           int
		size        int64
		first, last int64
		ok          bool
	}{
		{"inside", 2, 4, 10, 2, 5, true},
		{"clamped at end", 8, 4, 10, 8, 9, true},
		{"whole object", 0, 10, 10, 0, 9, true},
		{"at end", 10, 1, 10, 0, 0, false},
		{"negative offset", -1, 1, 10, 0, 0, false},
		{"empty read", 0, 0, 10, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := byteRange(tt.off, tt.n, tt.size)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-bucketvec"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	got, err := io.ReadAll(blobstore.NewReader(ctx, blob))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.txt")

	require.NoError(t, store.Delete(ctx, "test.txt"))
	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "stream.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob, err = store.Open(ctx, "stream.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob.Size())
	require.NoError(t, blob.Close())

	_ = store.Delete(ctx, "stream.txt")

	wb, err = store.Create(ctx, "aborted.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, wb.(blobstore.Aborter).Abort())
	_, err = store.Open(ctx, "aborted.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
