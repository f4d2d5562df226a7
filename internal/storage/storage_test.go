package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"alcyxob/interval-trainer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	var fs FileStorage = NewMemoryStorage()

	_, err := fs.GeneratePresignedDownloadURL(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, fs.PutObject(ctx, "exports/u/s/x.parquet", "application/vnd.apache.parquet", []byte("PAR1")))

	body, contentType, ok := fs.(*MemoryStorage).Object("exports/u/s/x.parquet")
	require.True(t, ok)
	assert.Equal(t, []byte("PAR1"), body)
	assert.Equal(t, "application/vnd.apache.parquet", contentType)

	u, err := fs.GeneratePresignedDownloadURL(ctx, "exports/u/s/x.parquet", 0)
	require.NoError(t, err)
	assert.Equal(t, "memory:///exports/u/s/x.parquet?expires=15m0s", u)

	require.NoError(t, fs.DeleteObject(ctx, "exports/u/s/x.parquet"))
	_, _, ok = fs.(*MemoryStorage).Object("exports/u/s/x.parquet")
	assert.False(t, ok)
}

func TestS3Storage_PresignedDownloadURL(t *testing.T) {
	fs, err := NewS3Storage(config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "trainer",
	})
	require.NoError(t, err)

	u, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/a/b.parquet", 5*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/trainer/exports/a/b.parquet?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=300")
}
