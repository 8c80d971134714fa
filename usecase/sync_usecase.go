package usecase

import (
	"context"
	"fmt"

	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/infrastructure/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ChannelPlan binds one mirrored channel to its upstream ids and sync
// strategy.
type ChannelPlan struct {
	Channel   model.Channel
	ChannelID string
	UploadsID string // resolved through the source when empty
	Strategy  model.SyncStrategy
	Limit     int // capped strategy only; 0 = unlimited
}

// ISyncUsecase drives ingestion from the external source into the catalog.
type ISyncUsecase interface {
	// SyncAll syncs every planned channel with the default credential.
	// Channels are processed sequentially; a failing channel is logged and
	// skipped, never aborting the cycle.
	SyncAll(ctx context.Context) []model.SyncResult
	// RefreshChannels syncs the named channels (all when empty) with the
	// given credential.
	RefreshChannels(ctx context.Context, apiKey string, channels []model.Channel) ([]model.SyncResult, error)
	// Channels lists the planned channel tags in sync order.
	Channels() []model.Channel
}

// SyncUsecase implements the ingestion orchestrator.
type SyncUsecase struct {
	catalogRepo repository.ICatalog
	newSource   repository.SourceFactory
	defaultKey  string
	plans       []ChannelPlan
}

func NewSyncUsecase(catalogRepo repository.ICatalog, newSource repository.SourceFactory, defaultKey string, plans []ChannelPlan) ISyncUsecase {
	return &SyncUsecase{
		catalogRepo: catalogRepo,
		newSource:   newSource,
		defaultKey:  defaultKey,
		plans:       plans,
	}
}

func (u *SyncUsecase) Channels() []model.Channel {
	channels := make([]model.Channel, 0, len(u.plans))
	for _, p := range u.plans {
		channels = append(channels, p.Channel)
	}
	return channels
}

// SyncAll runs one full sync cycle with the default credential.
func (u *SyncUsecase) SyncAll(ctx context.Context) []model.SyncResult {
	runID := uuid.NewString()
	log := logger.GetLogger().WithField("runId", runID)
	log.WithField("channels", len(u.plans)).Info("Starting sync cycle")

	source, err := u.newSource(ctx, u.defaultKey)
	if err != nil {
		log.WithField("error", err).Error("Failed to build source client, skipping cycle")
		return nil
	}

	results := make([]model.SyncResult, 0, len(u.plans))
	for _, plan := range u.plans {
		result, err := u.syncChannel(ctx, source, plan)
		if err != nil {
			// One channel failing must not block the next one.
			log.WithField("channel", plan.Channel).WithField("error", err).Error("Channel sync failed")
			continue
		}
		stored, countErr := u.catalogRepo.CountByChannel(ctx, plan.Channel)
		if countErr != nil {
			stored = -1
		}
		log.WithField("channel", plan.Channel).
			WithField("fetched", result.Fetched).
			WithField("created", result.Created).
			WithField("updated", result.Updated).
			WithField("stored", stored).
			Info("Channel sync finished")
		results = append(results, result)
	}

	var created, updated int
	for _, r := range results {
		created += r.Created
		updated += r.Updated
	}
	log.WithField("created", created).WithField("updated", updated).Info("Sync cycle finished")
	return results
}

// RefreshChannels runs an on-demand sync restricted to the named channels.
// Per-channel failures are logged and skipped; an error is returned only when
// no channel could be synced at all.
func (u *SyncUsecase) RefreshChannels(ctx context.Context, apiKey string, channels []model.Channel) ([]model.SyncResult, error) {
	if apiKey == "" {
		apiKey = u.defaultKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}

	source, err := u.newSource(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build source client: %w", err)
	}

	plans := u.plans
	if len(channels) > 0 {
		wanted := make(map[model.Channel]struct{}, len(channels))
		for _, c := range channels {
			if !c.IsValid() {
				return nil, fmt.Errorf("%w: %q", ErrInvalidChannel, c)
			}
			wanted[c] = struct{}{}
		}
		plans = make([]ChannelPlan, 0, len(channels))
		for _, p := range u.plans {
			if _, ok := wanted[p.Channel]; ok {
				plans = append(plans, p)
			}
		}
	}

	results := make([]model.SyncResult, 0, len(plans))
	var lastErr error
	for _, plan := range plans {
		result, err := u.syncChannel(ctx, source, plan)
		if err != nil {
			logger.GetLogger().WithField("channel", plan.Channel).WithField("error", err).Error("Channel refresh failed")
			lastErr = err
			continue
		}
		results = append(results, result)
	}
	if len(results) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return results, nil
}

// syncChannel walks one channel per its strategy, fetches details and upserts
// every record. Items upserted before a later batch fails stay in the store;
// the catalog is append/update-only so a partial channel is acceptable.
func (u *SyncUsecase) syncChannel(ctx context.Context, source repository.ISource, plan ChannelPlan) (model.SyncResult, error) {
	result := model.SyncResult{Channel: plan.Channel}

	ids, err := u.collectIDs(ctx, source, plan)
	if err != nil {
		return result, err
	}

	items, err := source.FetchVideoDetails(ctx, plan.Channel, ids)
	if err != nil {
		return result, err
	}
	result.Fetched = len(items)

	for _, item := range items {
		created, err := u.catalogRepo.Upsert(ctx, item)
		if err != nil {
			return result, fmt.Errorf("failed to store %s: %w", item.YouTubeID, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// collectIDs resolves the id sequence for one channel. Full strategy walks
// the uploads playlist; capped runs the date and viewCount search passes
// concurrently (independent reads) and merges them by id.
func (u *SyncUsecase) collectIDs(ctx context.Context, source repository.ISource, plan ChannelPlan) ([]string, error) {
	if plan.Strategy != model.SyncCapped {
		uploadsID := plan.UploadsID
		if uploadsID == "" {
			resolved, err := source.ResolveUploadsPlaylist(ctx, plan.ChannelID)
			if err != nil {
				return nil, err
			}
			uploadsID = resolved
		}
		return source.ListPlaylistVideoIDs(ctx, uploadsID, plan.Limit)
	}

	half := plan.Limit / 2
	var recent, popular []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := source.SearchChannelVideoIDs(gctx, plan.ChannelID, "date", half)
		recent = ids
		return err
	})
	g.Go(func() error {
		ids, err := source.SearchChannelVideoIDs(gctx, plan.ChannelID, "viewCount", half)
		popular = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeUnique(recent, popular), nil
}

// mergeUnique concatenates id sequences keeping first occurrence order.
func mergeUnique(seqs ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, seq := range seqs {
		for _, id := range seq {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
