package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LayoutOneFilePerKey(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, BucketIssues, "PROJ-1", []byte(`{"a":1}`)))
	require.NoError(t, store.Write(ctx, BucketSearches, "fp1", []byte(`[]`)))

	assert.FileExists(t, filepath.Join(root, "issues", "PROJ-1.json"))
	assert.FileExists(t, filepath.Join(root, "searches", "fp1.json"))

	data, err := store.Read(ctx, BucketIssues, "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestFileStore_ReadMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), BucketIssues, "PROJ-404")
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestFileStore_PathEscapeRejected(t *testing.T) {
	// The cache layer sanitizes keys first; the store re-checks containment
	// as a second line of defense.
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../../etc/passwd", "../../../outside"} {
		err := store.Write(ctx, BucketIssues, key, []byte(`{}`))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestFileStore_DeleteIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, BucketIssues, "PROJ-1", []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, BucketIssues, "PROJ-1"))
	assert.NoError(t, store.Delete(ctx, BucketIssues, "PROJ-1"), "deleting an absent key is not an error")
}

func TestFileStore_WalkSkipsForeignFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, BucketIssues, "PROJ-1", []byte(`{}`)))
	require.NoError(t, os.WriteFile(filepath.Join(root, "issues", "README.txt"), []byte("notes"), 0o644))

	var keys []string
	err = store.Walk(ctx, func(_ Bucket, key string, _ int64, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PROJ-1"}, keys)
}
