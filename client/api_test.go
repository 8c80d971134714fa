package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"ted-mirror/client"
	"ted-mirror/domain/dto"
	"ted-mirror/domain/model"
)

func TestAPI_ListVideos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/ted", r.URL.Path)
		assert.Equal(t, "popular", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(dto.VideoListResponse{
			Success: true,
			Count:   1,
			Total:   30,
			Page:    2,
			HasMore: true,
			Data:    []model.CatalogItem{{YouTubeID: "v1"}},
		})
	}))
	defer server.Close()

	api := client.NewAPI(server.URL).WithToken("tok")
	page, err := api.ListVideos(context.Background(), "ted", "popular", 2, 20)

	assert.NoError(t, err)
	assert.True(t, page.HasMore)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, "v1", page.Data[0].YouTubeID)
}

func TestAPI_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"unknown channel"}`))
	}))
	defer server.Close()

	api := client.NewAPI(server.URL)
	_, err := api.ListVideos(context.Background(), "nosuch", "", 1, 20)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestAPI_CollapsesConcurrentIdenticalGets(t *testing.T) {
	var hits int64
	entered := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) == 1 {
			close(entered)
			<-release
		}
		_ = json.NewEncoder(w).Encode(dto.VideoSetResponse{Success: true})
	}))
	defer server.Close()

	api := client.NewAPI(server.URL).WithToken("tok")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := api.Favourites(context.Background())
		assert.NoError(t, err)
	}()
	<-entered

	// Identical requests issued while the first is in flight ride along on it.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.Favourites(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}
