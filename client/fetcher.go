package client

import (
	"context"
	"fmt"

	"ted-mirror/client/feed"
	"ted-mirror/domain/model"
)

// FeedFetcher adapts the API client to the feed controller. Paginated feeds
// report hasMore from the service; curated sets arrive whole, so only their
// first page carries items.
type FeedFetcher struct {
	api *API
}

func NewFeedFetcher(api *API) *FeedFetcher {
	return &FeedFetcher{api: api}
}

func (f *FeedFetcher) FetchPage(ctx context.Context, q feed.Query, page int) ([]model.CatalogItem, bool, error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	switch q.Feed {
	case "bucket":
		resp, err := f.api.Bucket(ctx, page, pageSize)
		if err != nil {
			return nil, false, err
		}
		return resp.Data, resp.HasMore, nil
	case "favourites":
		if page > 1 {
			return nil, false, nil
		}
		resp, err := f.api.Favourites(ctx)
		if err != nil {
			return nil, false, err
		}
		return resp.Data, false, nil
	case "watched":
		if page > 1 {
			return nil, false, nil
		}
		resp, err := f.api.Watched(ctx)
		if err != nil {
			return nil, false, err
		}
		return resp.Data, false, nil
	case "", "videos":
		resp, err := f.api.ListVideos(ctx, q.Channel, q.SortBy, page, pageSize)
		if err != nil {
			return nil, false, err
		}
		return resp.Data, resp.HasMore, nil
	}
	return nil, false, fmt.Errorf("unknown feed: %q", q.Feed)
}
