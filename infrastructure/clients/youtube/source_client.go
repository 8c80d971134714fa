package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const listingPageSize = 50

// Config represents the source client configuration. APIKey alone is enough
// for the read-only calls this service issues; OAuth credentials are accepted
// for deployments that already carry them.
type Config struct {
	APIKey       string        `json:"api_key"`
	ClientID     string        `json:"client_id"`
	ClientSecret string        `json:"client_secret"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	BatchSize    int           `json:"batch_size"`
	Pacing       time.Duration `json:"pacing"`
	CallTimeout  time.Duration `json:"call_timeout"`
}

// Client implements repository.ISource against the YouTube Data API v3.
type Client struct {
	service     *yt.Service
	batchSize   int
	limiter     *rate.Limiter
	callTimeout time.Duration
}

// NewClient creates a source client. API-key mode is used unless both OAuth
// tokens are present.
func NewClient(ctx context.Context, config *Config) (repository.ISource, error) {
	if config.APIKey == "" && (config.AccessToken == "" || config.RefreshToken == "") {
		return nil, fmt.Errorf("youtube credentials are required (api key or oauth tokens)")
	}

	var service *yt.Service
	var err error
	if config.AccessToken != "" && config.RefreshToken != "" {
		oauth2Config := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       []string{yt.YoutubeReadonlyScope},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(-1 * time.Minute), // force refresh on first use
		}
		service, err = yt.NewService(ctx, option.WithHTTPClient(oauth2Config.Client(ctx, token)))
	} else {
		service, err = yt.NewService(ctx, option.WithAPIKey(config.APIKey))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	batchSize := config.BatchSize
	if batchSize <= 0 || batchSize > listingPageSize {
		batchSize = listingPageSize
	}
	pacing := config.Pacing
	if pacing <= 0 {
		pacing = 100 * time.Millisecond
	}
	callTimeout := config.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}

	return &Client{
		service:     service,
		batchSize:   batchSize,
		limiter:     rate.NewLimiter(rate.Every(pacing), 1),
		callTimeout: callTimeout,
	}, nil
}

// ResolveUploadsPlaylist looks up the uploads playlist id for a channel.
func (c *Client) ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(callCtx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to resolve uploads playlist for %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("channel not found: %s", channelID)
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// ListPlaylistVideoIDs walks the playlist with continuation tokens and
// returns video ids in listing order, deduplicated. max of 0 means unlimited;
// the final page is truncated to fit a positive max.
func (c *Client) ListPlaylistVideoIDs(ctx context.Context, playlistID string, max int) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	pageToken := ""

	for {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(listingPageSize).
			Context(callCtx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist %s: %w", playlistID, err)
		}

		for _, item := range resp.Items {
			id := item.ContentDetails.VideoId
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		if max > 0 && len(ids) >= max {
			return ids[:max], nil
		}
		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
}

// SearchChannelVideoIDs walks a channel search ("date" or "viewCount" order)
// up to max ids. Used by the capped sync strategy.
func (c *Client) SearchChannelVideoIDs(ctx context.Context, channelID, order string, max int) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	pageToken := ""

	for {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		call := c.service.Search.List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			Order(order).
			MaxResults(listingPageSize).
			Context(callCtx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to search channel %s (%s): %w", channelID, order, err)
		}

		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			if _, dup := seen[item.Id.VideoId]; dup {
				continue
			}
			seen[item.Id.VideoId] = struct{}{}
			ids = append(ids, item.Id.VideoId)
		}

		if max > 0 && len(ids) >= max {
			return ids[:max], nil
		}
		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
}

// FetchVideoDetails retrieves full records in bounded batches, pacing between
// batches. Any batch failure fails the whole call; there is no partial-batch
// fallback.
func (c *Client) FetchVideoDetails(ctx context.Context, channel model.Channel, ids []string) ([]model.CatalogItem, error) {
	items := make([]model.CatalogItem, 0, len(ids))

	for start := 0; start < len(ids); start += c.batchSize {
		end := start + c.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		if start > 0 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(strings.Join(batch, ",")).
			Context(callCtx).
			Do()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch video details batch at %d: %w", start, err)
		}

		for _, video := range resp.Items {
			items = append(items, convertToCatalogItem(video, channel))
		}
	}
	return items, nil
}

// ValidateKey issues a minimal search to probe the credential.
func (c *Client) ValidateKey(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	_, err := c.service.Search.List([]string{"id"}).
		Q("test").
		MaxResults(1).
		Context(callCtx).
		Do()
	if err != nil {
		return fmt.Errorf("api key validation failed: %w", err)
	}
	return nil
}

// convertToCatalogItem normalizes an API video into our model.
func convertToCatalogItem(video *yt.Video, channel model.Channel) model.CatalogItem {
	publishedAt, _ := time.Parse(time.RFC3339, video.Snippet.PublishedAt)

	item := model.CatalogItem{
		YouTubeID:    video.Id,
		Channel:      channel,
		Title:        video.Snippet.Title,
		Description:  video.Snippet.Description,
		PublishedAt:  publishedAt,
		Tags:         video.Snippet.Tags,
		ChannelTitle: video.Snippet.ChannelTitle,
		Duration:     "0:00",
	}
	if video.ContentDetails != nil {
		item.Duration = ParseDuration(video.ContentDetails.Duration)
	}
	if video.Statistics != nil {
		item.Views = int64(video.Statistics.ViewCount)
		item.Likes = int64(video.Statistics.LikeCount)
	}
	if video.Snippet.Thumbnails != nil {
		if video.Snippet.Thumbnails.Default != nil {
			item.Thumbnail.Default = video.Snippet.Thumbnails.Default.Url
		}
		if video.Snippet.Thumbnails.Medium != nil {
			item.Thumbnail.Medium = video.Snippet.Thumbnails.Medium.Url
		}
		if video.Snippet.Thumbnails.High != nil {
			item.Thumbnail.High = video.Snippet.Thumbnails.High.Url
		}
	}
	return item
}
