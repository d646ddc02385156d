package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mytube/domain/model"
	"mytube/domain/repository"
	"mytube/infrastructure/logger"
)

// ErrSignInRequired is returned when a signed-out visitor attempts an action
// that persists per-user state; handlers answer it by prompting the auth
// overlay.
var ErrSignInRequired = errors.New("sign in required")

// userSource provides the current identity to the interaction engine.
type userSource interface {
	CurrentUser() *model.User
	CurrentProfile() *model.Profile
}

// IInteractionUsecase owns the ephemeral per-video reaction tallies and
// comment threads, and mutates the signed-in user's persisted lists.
type IInteractionUsecase interface {
	Like(ctx context.Context, videoID string)
	Dislike(ctx context.Context, videoID string)
	ToggleWatchLater(ctx context.Context, video model.Video) error
	PostComment(videoID, text string) *model.Comment
	Comments(videoID string) []model.Comment

	RecordWatch(ctx context.Context, video model.Video)
	LoadLists(ctx context.Context, userID string)
	ClearLists()

	WatchHistory() []model.Video
	WatchLater() []model.Video
	LikedVideos() []model.Video
	InWatchLater(videoID string) bool
	Likes() map[string]int
	Dislikes() map[string]int
	FindInLists(videoID string) (model.Video, bool)
}

// InteractionUsecase implements IInteractionUsecase. Reaction tallies are raw
// engagement counters, not booleans: repeated likes keep incrementing. They
// reset with the client session and are never persisted.
type InteractionUsecase struct {
	store   repository.IPreferenceStore
	users   userSource
	resolve func(videoID string) (model.Video, bool)

	mu          sync.Mutex
	likes       map[string]int
	dislikes    map[string]int
	comments    map[string][]model.Comment
	history     []model.Video
	watchLater  []model.Video
	likedVideos []model.Video
}

func NewInteractionUsecase(store repository.IPreferenceStore) *InteractionUsecase {
	return &InteractionUsecase{
		store:    store,
		likes:    make(map[string]int),
		dislikes: make(map[string]int),
		comments: make(map[string][]model.Comment),
	}
}

// WithUserSource attaches the session controller (fluent).
func (u *InteractionUsecase) WithUserSource(users userSource) *InteractionUsecase {
	u.users = users
	return u
}

// WithResolver attaches the catalog lookup used to materialize a liked video
// from its id (fluent).
func (u *InteractionUsecase) WithResolver(resolve func(string) (model.Video, bool)) *InteractionUsecase {
	u.resolve = resolve
	return u
}

// Like increments the video's like tally. An existing dislike tally is
// decremented by one, floored at zero. When signed in, the video joins the
// Liked Videos list (dedup by id) and the list is persisted.
func (u *InteractionUsecase) Like(ctx context.Context, videoID string) {
	u.mu.Lock()
	u.likes[videoID]++
	if u.dislikes[videoID] > 0 {
		u.dislikes[videoID]--
	}
	user := u.currentUser()
	if user != nil && u.resolve != nil {
		if video, ok := u.resolve(videoID); ok {
			u.likedVideos = append(removeByID(u.likedVideos, videoID), video)
			u.persistLocked(ctx, user.ID, model.ListLikedVideos, u.likedVideos)
		}
	}
	u.mu.Unlock()
}

// Dislike increments the dislike tally. Only when a like tally exists is it
// decremented — and, when signed in, the video removed from Liked Videos.
// The asymmetry with Like is intentional engagement-counter behavior.
func (u *InteractionUsecase) Dislike(ctx context.Context, videoID string) {
	u.mu.Lock()
	u.dislikes[videoID]++
	if u.likes[videoID] > 0 {
		u.likes[videoID]--
		if user := u.currentUser(); user != nil {
			u.likedVideos = removeByID(u.likedVideos, videoID)
			u.persistLocked(ctx, user.ID, model.ListLikedVideos, u.likedVideos)
		}
	}
	u.mu.Unlock()
}

// ToggleWatchLater flips the video's Watch Later membership for the signed-in
// user. Signed-out visitors get ErrSignInRequired instead.
func (u *InteractionUsecase) ToggleWatchLater(ctx context.Context, video model.Video) error {
	user := u.currentUser()
	if user == nil {
		return ErrSignInRequired
	}
	u.mu.Lock()
	if containsID(u.watchLater, video.ID) {
		u.watchLater = removeByID(u.watchLater, video.ID)
	} else {
		u.watchLater = append(u.watchLater, video)
	}
	u.persistLocked(ctx, user.ID, model.ListWatchLater, u.watchLater)
	u.mu.Unlock()
	return nil
}

// PostComment appends a comment to the video's thread. Whitespace-only text
// is silently rejected. Threads live in memory only.
func (u *InteractionUsecase) PostComment(videoID, text string) *model.Comment {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	author := "User"
	if u.users != nil {
		if profile := u.users.CurrentProfile(); profile != nil && profile.Username != "" {
			author = profile.Username
		}
	}
	comment := model.Comment{
		ID:        time.Now().UnixMilli(),
		Text:      text,
		User:      author,
		Timestamp: "Just now",
	}
	u.mu.Lock()
	u.comments[videoID] = append(u.comments[videoID], comment)
	u.mu.Unlock()
	return &comment
}

// Comments returns the video's thread, oldest first.
func (u *InteractionUsecase) Comments(videoID string) []model.Comment {
	u.mu.Lock()
	defer u.mu.Unlock()
	thread := u.comments[videoID]
	out := make([]model.Comment, len(thread))
	copy(out, thread)
	return out
}

// RecordWatch front-inserts the video into the signed-in user's watch
// history, deduplicated by id and capped. Signed-out watches leave no trace.
func (u *InteractionUsecase) RecordWatch(ctx context.Context, video model.Video) {
	user := u.currentUser()
	if user == nil {
		return
	}
	u.mu.Lock()
	history := append([]model.Video{video}, removeByID(u.history, video.ID)...)
	if len(history) > model.WatchHistoryCap {
		history = history[:model.WatchHistoryCap]
	}
	u.history = history
	u.persistLocked(ctx, user.ID, model.ListWatchHistory, u.history)
	u.mu.Unlock()
}

// LoadLists rehydrates the three lists from storage for the user. Load
// failures degrade to empty lists.
func (u *InteractionUsecase) LoadLists(ctx context.Context, userID string) {
	history := u.loadList(ctx, userID, model.ListWatchHistory)
	later := u.loadList(ctx, userID, model.ListWatchLater)
	liked := u.loadList(ctx, userID, model.ListLikedVideos)

	u.mu.Lock()
	u.history = history
	u.watchLater = later
	u.likedVideos = liked
	u.mu.Unlock()
}

// ClearLists drops the in-memory lists. Storage is left intact so the same
// user rehydrates on next sign-in.
func (u *InteractionUsecase) ClearLists() {
	u.mu.Lock()
	u.history = nil
	u.watchLater = nil
	u.likedVideos = nil
	u.mu.Unlock()
}

func (u *InteractionUsecase) WatchHistory() []model.Video { return u.snapshot(&u.history) }
func (u *InteractionUsecase) WatchLater() []model.Video   { return u.snapshot(&u.watchLater) }
func (u *InteractionUsecase) LikedVideos() []model.Video  { return u.snapshot(&u.likedVideos) }

func (u *InteractionUsecase) InWatchLater(videoID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return containsID(u.watchLater, videoID)
}

func (u *InteractionUsecase) Likes() map[string]int    { return u.copyTally(u.likes) }
func (u *InteractionUsecase) Dislikes() map[string]int { return u.copyTally(u.dislikes) }

// FindInLists looks a video up across the three per-user lists.
func (u *InteractionUsecase) FindInLists(videoID string) (model.Video, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, list := range [][]model.Video{u.history, u.watchLater, u.likedVideos} {
		for _, v := range list {
			if v.ID == videoID {
				return v, true
			}
		}
	}
	return model.Video{}, false
}

func (u *InteractionUsecase) currentUser() *model.User {
	if u.users == nil {
		return nil
	}
	return u.users.CurrentUser()
}

func (u *InteractionUsecase) loadList(ctx context.Context, userID string, kind model.ListKind) []model.Video {
	videos, err := u.store.LoadList(ctx, model.StorageKey{UserID: userID, Kind: kind})
	if err != nil {
		logger.GetLogger().WithField("kind", string(kind)).WithField("error", err).Warn("failed loading user list")
		return nil
	}
	return videos
}

// persistLocked writes one list; callers hold u.mu. Write failures are
// logged, not surfaced.
func (u *InteractionUsecase) persistLocked(ctx context.Context, userID string, kind model.ListKind, videos []model.Video) {
	if err := u.store.SaveList(ctx, model.StorageKey{UserID: userID, Kind: kind}, videos); err != nil {
		logger.GetLogger().WithField("kind", string(kind)).WithField("error", err).Error("failed persisting user list")
	}
}

func (u *InteractionUsecase) snapshot(list *[]model.Video) []model.Video {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]model.Video, len(*list))
	copy(out, *list)
	return out
}

func (u *InteractionUsecase) copyTally(src map[string]int) map[string]int {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func containsID(videos []model.Video, id string) bool {
	for _, v := range videos {
		if v.ID == id {
			return true
		}
	}
	return false
}

func removeByID(videos []model.Video, id string) []model.Video {
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}
