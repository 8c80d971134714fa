package repository

import (
	"context"

	"ted-mirror/domain/model"
)

// ISource abstracts the external content source: a cursor-paginated listing
// plus a batch detail lookup.
type ISource interface {
	// ResolveUploadsPlaylist resolves a channel id to its uploads playlist id,
	// needed only when the playlist id is not statically configured.
	ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error)
	// ListPlaylistVideoIDs walks the playlist's pages via continuation tokens
	// and returns the video ids in listing order, deduplicated. max caps the
	// result (0 = unlimited); the final page is truncated to fit.
	ListPlaylistVideoIDs(ctx context.Context, playlistID string, max int) ([]string, error)
	// SearchChannelVideoIDs walks a channel search ordered by "date" or
	// "viewCount" up to max ids.
	SearchChannelVideoIDs(ctx context.Context, channelID, order string, max int) ([]string, error)
	// FetchVideoDetails retrieves full records for the ids in bounded batches
	// with pacing between batches, normalized into CatalogItems tagged with
	// the given channel. Any batch failure fails the whole call.
	FetchVideoDetails(ctx context.Context, channel model.Channel, ids []string) ([]model.CatalogItem, error)
	// ValidateKey issues a minimal request to probe whether the credential is
	// accepted by the source.
	ValidateKey(ctx context.Context) error
}

// SourceFactory builds a source client bound to one API credential. The sync
// scheduler uses the configured default key; on-demand refresh uses the
// caller's stored key.
type SourceFactory func(ctx context.Context, apiKey string) (ISource, error)
