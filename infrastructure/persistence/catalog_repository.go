package persistence

import (
	"context"
	"fmt"
	"time"

	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const videosCollection = "videos"

// CatalogRepository stores catalog items in the videos collection, keyed by
// the unique youtubeId index.
type CatalogRepository struct {
	col *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) repository.ICatalog {
	return &CatalogRepository{col: db.Collection(videosCollection)}
}

// EnsureIndexes creates the unique key index plus the query indexes.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "youtubeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "channel", Value: 1}}},
		{Keys: bson.D{{Key: "publishedAt", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create catalog indexes: %w", err)
	}
	return nil
}

// Upsert inserts or overwrites one item keyed by youtubeId. Returns true when
// a new document was created.
func (r *CatalogRepository) Upsert(ctx context.Context, item model.CatalogItem) (bool, error) {
	if item.YouTubeID == "" {
		return false, fmt.Errorf("catalog item is missing youtubeId")
	}
	item.LastUpdated = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"youtubeId": item.YouTubeID},
		bson.M{"$set": item},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert video %s: %w", item.YouTubeID, err)
	}
	return res.UpsertedCount > 0, nil
}

// Find returns one page of items plus the total count for the query.
func (r *CatalogRepository) Find(ctx context.Context, q repository.CatalogQuery) ([]model.CatalogItem, int64, error) {
	filter := bson.M{}
	if q.Channel != "" {
		filter["channel"] = q.Channel
	}
	if len(q.ExcludeIDs) > 0 {
		filter["youtubeId"] = bson.M{"$nin": q.ExcludeIDs}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	findOpts := options.Find().
		SetSort(sortFor(q.Sort)).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.GetLogger().WithField("error", cerr).Error("Error while closing cursor")
		}
	}()

	items := make([]model.CatalogItem, 0, q.Limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode videos: %w", err)
	}
	return items, total, nil
}

// FindByIDs joins ids against the catalog, most viewed first. Ids with no
// catalog document are omitted.
func (r *CatalogRepository) FindByIDs(ctx context.Context, ids []string) ([]model.CatalogItem, error) {
	if len(ids) == 0 {
		return []model.CatalogItem{}, nil
	}

	cursor, err := r.col.Find(ctx,
		bson.M{"youtubeId": bson.M{"$in": ids}},
		options.Find().SetSort(sortFor(model.SortPopular)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos by ids: %w", err)
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.GetLogger().WithField("error", cerr).Error("Error while closing cursor")
		}
	}()

	items := make([]model.CatalogItem, 0, len(ids))
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	return items, nil
}

// CountByChannel returns the stored item count for one channel.
func (r *CatalogRepository) CountByChannel(ctx context.Context, channel model.Channel) (int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{"channel": channel})
	if err != nil {
		return 0, fmt.Errorf("failed to count channel %s: %w", channel, err)
	}
	return total, nil
}

// sortFor maps a sort mode to its compound Mongo sort. Recent breaks ties by
// views, popular breaks ties by publish time, so pagination stays stable.
func sortFor(mode model.SortMode) bson.D {
	if mode == model.SortPopular {
		return bson.D{{Key: "views", Value: -1}, {Key: "publishedAt", Value: -1}}
	}
	return bson.D{{Key: "publishedAt", Value: -1}, {Key: "views", Value: -1}}
}
