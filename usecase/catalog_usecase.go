package usecase

import (
	"context"
	"sync"

	"mytube/domain/dto"
	"mytube/domain/model"
	"mytube/domain/repository"
	"mytube/infrastructure/logger"
	"mytube/infrastructure/utils"
)

// channelAvatarURL is the placeholder shown beside every catalog entry; the
// search endpoint carries no channel imagery.
const channelAvatarURL = "https://static.vecteezy.com/system/resources/previews/023/986/480/original/youtube-logo-youtube-logo-transparent-youtube-icon-transparent-free-free-png.png"

const embedURLPrefix = "https://www.youtube.com/embed/"

// ICatalogUsecase maintains the current video grid.
type ICatalogUsecase interface {
	LoadVideos(ctx context.Context, query string)
	Videos() []model.Video
	Find(videoID string) (model.Video, bool)
}

// CatalogUsecase fetches search results plus their statistics and merges
// them positionally into display-ready videos. Loads are tracked with a
// generation counter so a slow response never overwrites a newer one.
type CatalogUsecase struct {
	catalog repository.ICatalog

	mu         sync.Mutex
	videos     []model.Video
	generation uint64
}

func NewCatalogUsecase(catalog repository.ICatalog) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

// LoadVideos replaces the grid with results for query. Any upstream failure
// is logged and leaves the grid unchanged.
func (u *CatalogUsecase) LoadVideos(ctx context.Context, query string) {
	if u.catalog == nil {
		logger.GetLogger().Warn("catalog client not configured, skipping load")
		return
	}

	u.mu.Lock()
	u.generation++
	gen := u.generation
	u.mu.Unlock()

	results, err := u.catalog.Search(ctx, query, repository.SearchPageSize)
	if err != nil {
		logger.GetLogger().WithField("query", query).WithField("error", err).Error("video search failed")
		return
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.VideoID
	}

	var stats []dto.VideoStatistics
	if len(ids) > 0 {
		stats, err = u.catalog.Statistics(ctx, ids)
		if err != nil {
			logger.GetLogger().WithField("query", query).WithField("error", err).Error("video statistics fetch failed")
			return
		}
	}

	videos := make([]model.Video, len(results))
	for i, r := range results {
		var views uint64
		if i < len(stats) {
			views = stats[i].ViewCount
		}
		videos[i] = model.Video{
			ID:        r.VideoID,
			Title:     r.Title,
			Channel:   r.ChannelTitle,
			Thumbnail: r.ThumbnailURL,
			Avatar:    channelAvatarURL,
			Views:     utils.FormatViewCount(views),
			Timestamp: utils.FormatPublishDate(r.PublishedAt),
			VideoURL:  embedURLPrefix + r.VideoID,
		}
	}

	u.mu.Lock()
	if gen == u.generation {
		u.videos = videos
	} else {
		logger.GetLogger().WithField("query", query).Debug("discarding stale catalog load")
	}
	u.mu.Unlock()
}

// Videos returns a copy of the current grid.
func (u *CatalogUsecase) Videos() []model.Video {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]model.Video, len(u.videos))
	copy(out, u.videos)
	return out
}

// Find looks a video up in the current grid by id.
func (u *CatalogUsecase) Find(videoID string) (model.Video, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.videos {
		if v.ID == videoID {
			return v, true
		}
	}
	return model.Video{}, false
}
