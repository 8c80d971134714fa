package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ted-mirror/domain/dto"

	"golang.org/x/sync/singleflight"
)

// API is a consumer-side client for the mirror service. Identical concurrent
// GETs are collapsed into one request via singleflight, so a burst of feed
// loads for the same page costs one round trip.
type API struct {
	baseURL    string
	token      string
	httpClient *http.Client
	group      singleflight.Group
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithToken sets the bearer token used for the authenticated endpoints.
func (a *API) WithToken(token string) *API {
	a.token = token
	return a
}

// ListVideos fetches one catalog page. channel is a tag or "all".
func (a *API) ListVideos(ctx context.Context, channel, sortBy string, page, pageSize int) (*dto.VideoListResponse, error) {
	q := url.Values{}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(pageSize))
	return a.getPage(ctx, fmt.Sprintf("/api/videos/%s?%s", url.PathEscape(channel), q.Encode()))
}

// Bucket fetches one page of the caller's bucket feed.
func (a *API) Bucket(ctx context.Context, page, pageSize int) (*dto.VideoListResponse, error) {
	return a.getPage(ctx, fmt.Sprintf("/api/user/bucket?page=%d&limit=%d", page, pageSize))
}

// Favourites fetches the caller's favourites set.
func (a *API) Favourites(ctx context.Context) (*dto.VideoSetResponse, error) {
	return a.getSet(ctx, "/api/user/favourites")
}

// Watched fetches the caller's watched set.
func (a *API) Watched(ctx context.Context) (*dto.VideoSetResponse, error) {
	return a.getSet(ctx, "/api/user/watched")
}

func (a *API) getPage(ctx context.Context, path string) (*dto.VideoListResponse, error) {
	raw, err := a.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var page dto.VideoListResponse
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return &page, nil
}

func (a *API) getSet(ctx context.Context, path string) (*dto.VideoSetResponse, error) {
	raw, err := a.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var set dto.VideoSetResponse
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return &set, nil
}

// get runs the request under singleflight keyed by path. Errors are not
// cached; a later call with the same key retries.
func (a *API) get(ctx context.Context, path string) ([]byte, error) {
	raw, err, _ := a.group.Do(path, func() (interface{}, error) {
		return a.doGet(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

func (a *API) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
