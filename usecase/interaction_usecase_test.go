package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mytube/domain/model"
	"mytube/infrastructure/persistence"
	"mytube/usecase"
)

type stubUsers struct {
	user    *model.User
	profile *model.Profile
}

func (s *stubUsers) CurrentUser() *model.User       { return s.user }
func (s *stubUsers) CurrentProfile() *model.Profile { return s.profile }

func gridResolver(videos ...model.Video) func(string) (model.Video, bool) {
	return func(id string) (model.Video, bool) {
		for _, v := range videos {
			if v.ID == id {
				return v, true
			}
		}
		return model.Video{}, false
	}
}

func video(id string) model.Video {
	return model.Video{ID: id, Title: "Video " + id, Channel: "Channel"}
}

func TestInteractionUsecase_LikeAndDislikeTallies(t *testing.T) {
	ctx := context.Background()
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(&stubUsers{})

	interactions.Like(ctx, "v1")
	interactions.Like(ctx, "v1")
	assert.Equal(t, 2, interactions.Likes()["v1"])

	interactions.Dislike(ctx, "v1")
	assert.Equal(t, 1, interactions.Dislikes()["v1"])
	assert.Equal(t, 1, interactions.Likes()["v1"])

	interactions.Dislike(ctx, "v1")
	interactions.Dislike(ctx, "v1")
	assert.Equal(t, 3, interactions.Dislikes()["v1"])
	assert.Equal(t, 0, interactions.Likes()["v1"], "like tally never goes negative")
}

func TestInteractionUsecase_LikeFloorsDislikeAtZero(t *testing.T) {
	ctx := context.Background()
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(&stubUsers{})

	interactions.Dislike(ctx, "v1")
	interactions.Like(ctx, "v1")
	assert.Equal(t, 1, interactions.Likes()["v1"])
	assert.Equal(t, 0, interactions.Dislikes()["v1"])

	interactions.Like(ctx, "v1")
	assert.Equal(t, 0, interactions.Dislikes()["v1"])
	assert.Equal(t, 2, interactions.Likes()["v1"])
}

func TestInteractionUsecase_LikedVideosPersistence(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryPreferenceStore()
	user := &model.User{ID: "user-1"}
	interactions := usecase.NewInteractionUsecase(store).
		WithUserSource(&stubUsers{user: user}).
		WithResolver(gridResolver(video("v1"), video("v2")))

	interactions.Like(ctx, "v1")
	interactions.Like(ctx, "v2")
	interactions.Like(ctx, "v1")

	liked := interactions.LikedVideos()
	require.Len(t, liked, 2, "re-liking must not duplicate")
	assert.Equal(t, "v2", liked[0].ID)
	assert.Equal(t, "v1", liked[1].ID, "re-liked video moves to the end")

	persisted, err := store.LoadList(ctx, model.StorageKey{UserID: "user-1", Kind: model.ListLikedVideos})
	require.NoError(t, err)
	assert.Len(t, persisted, 2)

	interactions.Dislike(ctx, "v1")
	liked = interactions.LikedVideos()
	require.Len(t, liked, 1)
	assert.Equal(t, "v2", liked[0].ID)
}

func TestInteractionUsecase_LikeOutsideGridSkipsList(t *testing.T) {
	ctx := context.Background()
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(&stubUsers{user: &model.User{ID: "user-1"}}).
		WithResolver(gridResolver())

	interactions.Like(ctx, "ghost")
	assert.Equal(t, 1, interactions.Likes()["ghost"])
	assert.Empty(t, interactions.LikedVideos())
}

func TestInteractionUsecase_ToggleWatchLater(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryPreferenceStore()
	users := &stubUsers{}
	interactions := usecase.NewInteractionUsecase(store).WithUserSource(users)

	err := interactions.ToggleWatchLater(ctx, video("v1"))
	require.ErrorIs(t, err, usecase.ErrSignInRequired)

	users.user = &model.User{ID: "user-1"}
	require.NoError(t, interactions.ToggleWatchLater(ctx, video("v1")))
	assert.True(t, interactions.InWatchLater("v1"))

	persisted, err := store.LoadList(ctx, model.StorageKey{UserID: "user-1", Kind: model.ListWatchLater})
	require.NoError(t, err)
	require.Len(t, persisted, 1)

	require.NoError(t, interactions.ToggleWatchLater(ctx, video("v1")))
	assert.False(t, interactions.InWatchLater("v1"))
}

func TestInteractionUsecase_WatchHistoryDedupAndCap(t *testing.T) {
	ctx := context.Background()
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(&stubUsers{user: &model.User{ID: "user-1"}})

	interactions.RecordWatch(ctx, video("a"))
	interactions.RecordWatch(ctx, video("b"))
	interactions.RecordWatch(ctx, video("a"))

	history := interactions.WatchHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].ID, "rewatched video moves to the front")
	assert.Equal(t, "b", history[1].ID)

	for i := 0; i < model.WatchHistoryCap+5; i++ {
		interactions.RecordWatch(ctx, video(fmt.Sprintf("v%d", i)))
	}
	history = interactions.WatchHistory()
	assert.Len(t, history, model.WatchHistoryCap)
	assert.Equal(t, fmt.Sprintf("v%d", model.WatchHistoryCap+4), history[0].ID)
}

func TestInteractionUsecase_AnonymousWatchLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(&stubUsers{})

	interactions.RecordWatch(ctx, video("a"))
	assert.Empty(t, interactions.WatchHistory())
}

func TestInteractionUsecase_Comments(t *testing.T) {
	users := &stubUsers{}
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(users)

	assert.Nil(t, interactions.PostComment("v1", "   \t  "), "whitespace-only comments are dropped")
	assert.Empty(t, interactions.Comments("v1"))

	comment := interactions.PostComment("v1", "nice fight")
	require.NotNil(t, comment)
	assert.Greater(t, comment.ID, int64(0))
	assert.Equal(t, "User", comment.User, "anonymous comments fall back to the default author")
	assert.Equal(t, "Just now", comment.Timestamp)

	users.profile = &model.Profile{ID: "user-1", Username: "itachi"}
	comment = interactions.PostComment("v1", "second")
	require.NotNil(t, comment)
	assert.Equal(t, "itachi", comment.User)

	thread := interactions.Comments("v1")
	require.Len(t, thread, 2)
	assert.Equal(t, "nice fight", thread[0].Text)
	assert.Empty(t, interactions.Comments("v2"), "threads are per video")
}

func TestInteractionUsecase_LoadAndClearLists(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryPreferenceStore()
	key := model.StorageKey{UserID: "user-1", Kind: model.ListWatchHistory}
	require.NoError(t, store.SaveList(ctx, key, []model.Video{video("a"), video("b")}))

	interactions := usecase.NewInteractionUsecase(store).
		WithUserSource(&stubUsers{user: &model.User{ID: "user-1"}})

	interactions.LoadLists(ctx, "user-1")
	assert.Len(t, interactions.WatchHistory(), 2)
	assert.Empty(t, interactions.WatchLater())

	interactions.ClearLists()
	assert.Empty(t, interactions.WatchHistory())

	// Storage survives a clear so the next sign-in rehydrates.
	persisted, err := store.LoadList(ctx, key)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}
