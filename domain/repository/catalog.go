package repository

import (
	"context"

	"ted-mirror/domain/model"
)

// CatalogQuery describes one indexed read against the catalog collection.
type CatalogQuery struct {
	Channel    model.Channel  // empty selects all channels
	Sort       model.SortMode // defaults to SortRecent when empty
	Skip       int
	Limit      int
	ExcludeIDs []string // ids filtered out of the result (bucket view)
}

// ICatalog defines the catalog store. Upsert is keyed by the external video id
// and is idempotent; the store is append/update-only and never deletes.
type ICatalog interface {
	// Upsert inserts or overwrites the item keyed by YouTubeID. It reports
	// whether a new document was created.
	Upsert(ctx context.Context, item model.CatalogItem) (bool, error)
	// Find returns one page of items plus the total count matching the query.
	Find(ctx context.Context, q CatalogQuery) ([]model.CatalogItem, int64, error)
	// FindByIDs joins the given ids against the catalog, views descending.
	// Ids missing from the catalog are silently omitted.
	FindByIDs(ctx context.Context, ids []string) ([]model.CatalogItem, error)
	// CountByChannel returns the number of stored items for one channel.
	CountByChannel(ctx context.Context, channel model.Channel) (int64, error)
	// EnsureIndexes creates the unique youtubeId index and the query indexes.
	EnsureIndexes(ctx context.Context) error
}
