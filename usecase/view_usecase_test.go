package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mytube/domain/dto"
	"mytube/domain/model"
	"mytube/infrastructure/persistence"
	"mytube/usecase"
)

func newViewFixture(users *stubUsers, mockCatalog *MockCatalog) (*usecase.ViewUsecase, *usecase.CatalogUsecase, *usecase.InteractionUsecase) {
	catalog := usecase.NewCatalogUsecase(mockCatalog)
	interactions := usecase.NewInteractionUsecase(persistence.NewMemoryPreferenceStore()).
		WithUserSource(users).
		WithResolver(catalog.Find)
	view := usecase.NewViewUsecase(catalog, interactions)
	return view, catalog, interactions
}

func expectLoad(mockCatalog *MockCatalog, query string, ids ...string) {
	stats := make([]dto.VideoStatistics, len(ids))
	for i, id := range ids {
		stats[i] = dto.VideoStatistics{VideoID: id, ViewCount: 10}
	}
	mockCatalog.On("Search", mock.Anything, query, int64(12)).
		Return(searchResults(ids...), nil).Once()
	mockCatalog.On("Statistics", mock.Anything, ids).
		Return(stats, nil).Once()
}

func TestViewUsecase_CuratedGridsOnFreshEntry(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	expectLoad(mockCatalog, "naruto fights", "home1")
	view, catalog, _ := newViewFixture(&stubUsers{}, mockCatalog)

	view.Navigate(ctx, model.ViewHome)
	require.Len(t, catalog.Videos(), 1)

	// Re-selecting the active view does not reload.
	view.Navigate(ctx, model.ViewHome)

	expectLoad(mockCatalog, "anime fights", "explore1")
	view.Navigate(ctx, model.ViewExplore)
	videos := catalog.Videos()
	require.Len(t, videos, 1)
	assert.Equal(t, "explore1", videos[0].ID)

	// Library-style views keep whatever grid was loaded last.
	view.Navigate(ctx, model.ViewLibrary)
	view.Navigate(ctx, model.ViewHistory)
	current, selected := view.Current()
	assert.Equal(t, model.ViewHistory, current)
	assert.Nil(t, selected)

	mockCatalog.AssertExpectations(t)
}

func TestViewUsecase_SearchBlankIsNoOp(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	expectLoad(mockCatalog, "naruto fights", "home1")
	view, _, _ := newViewFixture(&stubUsers{}, mockCatalog)
	view.Navigate(ctx, model.ViewHome)

	view.Search(ctx, "   ")
	current, _ := view.Current()
	assert.Equal(t, model.ViewHome, current, "blank search changes nothing")
	mockCatalog.AssertNotCalled(t, "Search", mock.Anything, "   ", mock.Anything)

	expectLoad(mockCatalog, "gundam", "g1")
	view.Search(ctx, "gundam")
	current, _ = view.Current()
	assert.Equal(t, model.ViewSearch, current)
	mockCatalog.AssertExpectations(t)
}

func TestViewUsecase_SelectAndClose(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	expectLoad(mockCatalog, "naruto fights", "v1", "v2")
	users := &stubUsers{user: &model.User{ID: "user-1"}}
	view, _, interactions := newViewFixture(users, mockCatalog)
	view.Navigate(ctx, model.ViewHome)

	require.ErrorIs(t, view.Select(ctx, "missing"), usecase.ErrVideoNotFound)

	require.NoError(t, view.Select(ctx, "v2"))
	current, selected := view.Current()
	assert.Equal(t, model.ViewHome, current, "selection overlays the view without leaving it")
	require.NotNil(t, selected)
	assert.Equal(t, "v2", selected.ID)

	history := interactions.WatchHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "v2", history[0].ID)

	view.CloseVideo()
	current, selected = view.Current()
	assert.Equal(t, model.ViewHome, current)
	assert.Nil(t, selected)
}

func TestViewUsecase_SelectFromUserLists(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	expectLoad(mockCatalog, "naruto fights", "v1")
	users := &stubUsers{user: &model.User{ID: "user-1"}}
	view, _, interactions := newViewFixture(users, mockCatalog)
	view.Navigate(ctx, model.ViewHome)

	// A video only present in watch later is still selectable after the grid
	// moves on.
	require.NoError(t, interactions.ToggleWatchLater(ctx, video("later1")))
	expectLoad(mockCatalog, "other", "x1")
	view.Search(ctx, "other")

	require.NoError(t, view.Select(ctx, "later1"))
	_, selected := view.Current()
	require.NotNil(t, selected)
	assert.Equal(t, "later1", selected.ID)
}

func TestViewUsecase_NavigateClosesOverlay(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	expectLoad(mockCatalog, "naruto fights", "v1")
	view, _, _ := newViewFixture(&stubUsers{}, mockCatalog)
	view.Navigate(ctx, model.ViewHome)

	require.NoError(t, view.Select(ctx, "v1"))
	view.Navigate(ctx, model.ViewLibrary)
	current, selected := view.Current()
	assert.Equal(t, model.ViewLibrary, current)
	assert.Nil(t, selected)
}
