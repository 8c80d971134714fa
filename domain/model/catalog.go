package model

import "time"

// Channel identifies one of the mirrored content sources.
type Channel string

const (
	ChannelTED   Channel = "ted"
	ChannelTEDEd Channel = "teded"
	ChannelTEDx  Channel = "tedx"
)

// AllChannels lists every mirrored channel in sync order.
func AllChannels() []Channel {
	return []Channel{ChannelTED, ChannelTEDEd, ChannelTEDx}
}

// IsValid reports whether c names a mirrored channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelTED, ChannelTEDEd, ChannelTEDx:
		return true
	}
	return false
}

// Thumbnail holds the thumbnail variants returned by the source.
type Thumbnail struct {
	Default string `json:"default,omitempty" bson:"default,omitempty"`
	Medium  string `json:"medium,omitempty" bson:"medium,omitempty"`
	High    string `json:"high,omitempty" bson:"high,omitempty"`
}

// CatalogItem is one synchronized video record. YouTubeID is the unique key;
// re-syncing an existing id overwrites the mutable fields and LastUpdated,
// it never creates a second document.
type CatalogItem struct {
	YouTubeID    string    `json:"youtubeId" bson:"youtubeId"`
	Channel      Channel   `json:"channel" bson:"channel"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Thumbnail    Thumbnail `json:"thumbnail" bson:"thumbnail"`
	Duration     string    `json:"duration" bson:"duration"`
	PublishedAt  time.Time `json:"publishedAt" bson:"publishedAt"`
	Views        int64     `json:"views" bson:"views"`
	Likes        int64     `json:"likes" bson:"likes"`
	Tags         []string  `json:"tags" bson:"tags"`
	ChannelTitle string    `json:"channelTitle" bson:"channelTitle"`
	LastUpdated  time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

// SortMode selects the catalog ordering.
type SortMode string

const (
	// SortRecent orders by publish time descending, views as tie-break.
	SortRecent SortMode = "recent"
	// SortPopular orders by views descending, publish time as tie-break.
	SortPopular SortMode = "popular"
)

// IsValid reports whether s is a known sort mode.
func (s SortMode) IsValid() bool {
	return s == SortRecent || s == SortPopular
}

// SyncStrategy selects how a channel is walked during sync.
type SyncStrategy string

const (
	// SyncFull walks the whole uploads playlist.
	SyncFull SyncStrategy = "full"
	// SyncCapped combines a most-recent and a most-popular search pass up to a
	// configured limit, deduplicated by video id.
	SyncCapped SyncStrategy = "capped"
)

// SyncResult reports the outcome of syncing one channel.
type SyncResult struct {
	Channel Channel `json:"channel"`
	Fetched int     `json:"fetched"`
	Created int     `json:"created"`
	Updated int     `json:"updated"`
}
