package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mytube/domain/model"
)

func TestStorageKeyString(t *testing.T) {
	key := model.StorageKey{UserID: "6f04e940", Kind: model.ListWatchHistory}
	assert.Equal(t, "watchHistory_6f04e940", key.String())

	key.Kind = model.ListLikedVideos
	assert.Equal(t, "likedVideos_6f04e940", key.String())
}

func TestStorageKeyValid(t *testing.T) {
	assert.True(t, model.StorageKey{UserID: "u1", Kind: model.ListWatchLater}.Valid())
	assert.False(t, model.StorageKey{Kind: model.ListWatchLater}.Valid(), "user id is required")
	assert.False(t, model.StorageKey{UserID: "u1", Kind: "playlists"}.Valid(), "unknown kinds are rejected")
}

func TestViewValid(t *testing.T) {
	for _, v := range []model.View{
		model.ViewHome, model.ViewExplore, model.ViewLibrary,
		model.ViewHistory, model.ViewLiked, model.ViewSearch,
	} {
		assert.True(t, v.Valid(), string(v))
	}
	assert.False(t, model.View("trending").Valid())
	assert.False(t, model.View("").Valid())
}
