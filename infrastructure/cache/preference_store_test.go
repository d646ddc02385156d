package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mytube/domain/model"
	"mytube/infrastructure/cache"
)

// Without a live Redis the store degrades to a no-op; these cover the nil
// path and the key validation that happens before any round trip.
func TestPreferenceStore_NilClientDegrades(t *testing.T) {
	store := cache.NewPreferenceStore(nil)
	key := model.StorageKey{UserID: "u1", Kind: model.ListWatchHistory}

	videos, err := store.LoadList(context.Background(), key)
	require.NoError(t, err)
	assert.Empty(t, videos)

	require.NoError(t, store.SaveList(context.Background(), key, []model.Video{{ID: "a"}}))
}

func TestPreferenceStore_RejectsInvalidKey(t *testing.T) {
	store := cache.NewPreferenceStore(nil)

	_, err := store.LoadList(context.Background(), model.StorageKey{Kind: model.ListWatchHistory})
	require.Error(t, err)

	err = store.SaveList(context.Background(), model.StorageKey{UserID: "u1", Kind: "bogus"}, nil)
	require.Error(t, err)
}
