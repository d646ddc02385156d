package dto

// SearchResult is one raw item of the catalog search call, before statistics
// are merged in. Order matters: statistics are matched positionally.
type SearchResult struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublishedAt  string `json:"published_at"` // RFC 3339 as returned by the API
}

// VideoStatistics is the per-video slice of the statistics call.
type VideoStatistics struct {
	VideoID   string `json:"video_id"`
	ViewCount uint64 `json:"view_count"`
}
