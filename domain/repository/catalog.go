package repository

import (
	"context"

	"mytube/domain/dto"
)

// SearchPageSize is the fixed result cap of a catalog search.
const SearchPageSize = 12

// ICatalog is the third-party video search API.
type ICatalog interface {
	// Search returns at most max video results for the query, in API order.
	Search(ctx context.Context, query string, max int64) ([]dto.SearchResult, error)
	// Statistics returns view counts for the given ids. The result preserves
	// the order of ids; callers align it positionally with a search response.
	Statistics(ctx context.Context, videoIDs []string) ([]dto.VideoStatistics, error)
}
