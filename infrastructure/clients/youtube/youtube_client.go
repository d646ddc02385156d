package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mytube/domain/dto"
	"mytube/domain/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client is the catalog client over the YouTube Data API.
type Client struct {
	service *youtube.Service
}

// Config represents catalog API credentials.
type Config struct {
	APIKey       string `json:"api_key"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURL  string `json:"redirect_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewClient creates a catalog client. With only an API key configured the
// client runs in read-only key mode; OAuth credentials switch it to an
// authenticated service with automatic token refresh.
func NewClient(ctx context.Context, config *Config) (repository.ICatalog, error) {
	if (config.AccessToken == "" || config.RefreshToken == "") && config.APIKey != "" {
		service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		return &Client{service: service}, nil
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // force refresh on first use
	}
	service, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2Config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// Search returns at most max video results for the query, in API order.
func (c *Client) Search(ctx context.Context, query string, max int64) ([]dto.SearchResult, error) {
	if max <= 0 || max > repository.SearchPageSize {
		max = repository.SearchPageSize
	}
	call := c.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(max).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	results := make([]dto.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		r := dto.SearchResult{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			r.ThumbnailURL = item.Snippet.Thumbnails.High.Url
		}
		results = append(results, r)
	}
	return results, nil
}

// Statistics returns view counts for the given ids, preserving input order.
func (c *Client) Statistics(ctx context.Context, videoIDs []string) ([]dto.VideoStatistics, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	call := c.service.Videos.List([]string{"statistics"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube statistics failed: %w", err)
	}

	// Index by id, then emit in request order so positional alignment with
	// the search response holds even if the API reorders items.
	byID := make(map[string]uint64, len(resp.Items))
	for _, item := range resp.Items {
		if item.Statistics != nil {
			byID[item.Id] = item.Statistics.ViewCount
		}
	}
	stats := make([]dto.VideoStatistics, 0, len(videoIDs))
	for _, id := range videoIDs {
		stats = append(stats, dto.VideoStatistics{VideoID: id, ViewCount: byID[id]})
	}
	return stats, nil
}
