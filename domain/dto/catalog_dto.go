package dto

import "ted-mirror/domain/model"

// VideoListRequest represents the parameters of a catalog list query.
type VideoListRequest struct {
	Channel  string `json:"channel"` // channel tag or "all"
	SortBy   string `json:"sortBy"`  // recent, popular
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// VideoListResponse represents a paginated catalog page.
type VideoListResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	HasMore bool                `json:"hasMore"`
	Data    []model.CatalogItem `json:"data"`
}

// VideoSetResponse represents an unpaginated curated view (favourites, watched).
type VideoSetResponse struct {
	Success bool                `json:"success"`
	Data    []model.CatalogItem `json:"data"`
}

// RefreshRequest triggers an on-demand sync. Empty channel means all channels.
type RefreshRequest struct {
	Channel string `json:"channel,omitempty"`
}

// RefreshResponse reports the outcome of an on-demand sync.
type RefreshResponse struct {
	Success        bool               `json:"success"`
	Message        string             `json:"message"`
	Created        int                `json:"created"`
	Updated        int                `json:"updated"`
	Channels       []model.Channel    `json:"channels"`
	Results        []model.SyncResult `json:"results,omitempty"`
	UsedUserAPIKey bool               `json:"usedUserApiKey"`
	NeedsAPIKey    bool               `json:"needsApiKey,omitempty"`
}

// CurationRequest adds a video id to a per-user set.
type CurationRequest struct {
	VideoID string `json:"videoId" binding:"required"`
}

// CurationResponse acknowledges a curation mutation.
type CurationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
