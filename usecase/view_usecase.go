package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"mytube/domain/model"
)

// Queries backing the curated home and explore grids.
const (
	homeQuery    = "naruto fights"
	exploreQuery = "anime fights"
)

// ErrVideoNotFound is returned when a selection targets an id absent from
// both the grid and the user's lists.
var ErrVideoNotFound = errors.New("video not found")

// IViewUsecase tracks which view is active and which video, if any, is open
// in the player overlay.
type IViewUsecase interface {
	Navigate(ctx context.Context, view model.View)
	Search(ctx context.Context, query string)
	Select(ctx context.Context, videoID string) error
	CloseVideo()
	Current() (model.View, *model.Video)
}

type ViewUsecase struct {
	catalog      *CatalogUsecase
	interactions IInteractionUsecase

	mu          sync.Mutex
	current     model.View
	selected    *model.Video
	initialized bool
}

func NewViewUsecase(catalog *CatalogUsecase, interactions IInteractionUsecase) *ViewUsecase {
	return &ViewUsecase{
		catalog:      catalog,
		interactions: interactions,
		current:      model.ViewHome,
	}
}

// Navigate switches the active view and closes any open player. Entering
// home or explore from elsewhere loads that view's curated grid; re-selecting
// the active view is a no-op for the grid.
func (u *ViewUsecase) Navigate(ctx context.Context, view model.View) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fresh := !u.initialized || view != u.current
	u.initialized = true
	u.current = view
	u.selected = nil
	if !fresh {
		return
	}
	switch view {
	case model.ViewHome:
		u.catalog.LoadVideos(ctx, homeQuery)
	case model.ViewExplore:
		u.catalog.LoadVideos(ctx, exploreQuery)
	}
}

// Search moves to the search view and loads results for query. Blank queries
// change nothing at all.
func (u *ViewUsecase) Search(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.initialized = true
	u.current = model.ViewSearch
	u.selected = nil
	u.catalog.LoadVideos(ctx, query)
}

// Select opens the player for a video from the grid or any of the user's
// lists, recording the watch.
func (u *ViewUsecase) Select(ctx context.Context, videoID string) error {
	video, ok := u.catalog.Find(videoID)
	if !ok {
		video, ok = u.interactions.FindInLists(videoID)
	}
	if !ok {
		return ErrVideoNotFound
	}
	u.mu.Lock()
	u.selected = &video
	u.mu.Unlock()
	u.interactions.RecordWatch(ctx, video)
	return nil
}

// CloseVideo dismisses the player overlay, leaving the view in place.
func (u *ViewUsecase) CloseVideo() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.selected = nil
}

// Current reports the active view and a copy of the selected video.
func (u *ViewUsecase) Current() (model.View, *model.Video) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.selected == nil {
		return u.current, nil
	}
	v := *u.selected
	return u.current, &v
}
