package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"secureeye/pkg/platform/sentinel"
)

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	payload := []byte("not really a png")
	ref, err := store.Put(ctx, payload)
	require.NoError(t, err)
	require.NotEmpty(t, ref.Key)

	got, err := store.Get(ctx, ref.Key)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFSStoreUniqueKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	ref1, err := store.Put(ctx, []byte("a"))
	require.NoError(t, err)
	ref2, err := store.Put(ctx, []byte("a"))
	require.NoError(t, err)
	require.NotEqual(t, ref1.Key, ref2.Key)
}

func TestFSStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(ctx, "nope.png")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFSStoreRejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(ctx, "../secret.png")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
