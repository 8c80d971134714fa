package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/usecase"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	args := m.Called(ctx, channelID)
	return args.String(0), args.Error(1)
}

func (m *MockSource) ListPlaylistVideoIDs(ctx context.Context, playlistID string, max int) ([]string, error) {
	args := m.Called(ctx, playlistID, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSource) SearchChannelVideoIDs(ctx context.Context, channelID, order string, max int) ([]string, error) {
	args := m.Called(ctx, channelID, order, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSource) FetchVideoDetails(ctx context.Context, channel model.Channel, ids []string) ([]model.CatalogItem, error) {
	args := m.Called(ctx, channel, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogItem), args.Error(1)
}

func (m *MockSource) ValidateKey(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func sourceFactoryFor(source repository.ISource) repository.SourceFactory {
	return func(ctx context.Context, apiKey string) (repository.ISource, error) {
		return source, nil
	}
}

func TestSyncUsecase_SyncAll_FullStrategy(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	items := makeItems("v1", "v2", "v3")
	mockSource.On("ListPlaylistVideoIDs", mock.Anything, "UU-ted", 0).
		Return([]string{"v1", "v2", "v3"}, nil).Once()
	mockSource.On("FetchVideoDetails", mock.Anything, model.ChannelTED, []string{"v1", "v2", "v3"}).
		Return(items, nil).Once()

	// v1 and v2 are new, v3 already exists and gets overwritten in place.
	mockCatalogRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(i model.CatalogItem) bool { return i.YouTubeID == "v1" })).
		Return(true, nil).Once()
	mockCatalogRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(i model.CatalogItem) bool { return i.YouTubeID == "v2" })).
		Return(true, nil).Once()
	mockCatalogRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(i model.CatalogItem) bool { return i.YouTubeID == "v3" })).
		Return(false, nil).Once()
	mockCatalogRepo.On("CountByChannel", mock.Anything, model.ChannelTED).Return(int64(3), nil)

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", []usecase.ChannelPlan{
		{Channel: model.ChannelTED, ChannelID: "ted-channel", UploadsID: "UU-ted", Strategy: model.SyncFull},
	})

	results := syncUsecase.SyncAll(context.Background())

	assert.Len(t, results, 1)
	assert.Equal(t, model.ChannelTED, results[0].Channel)
	assert.Equal(t, 3, results[0].Fetched)
	assert.Equal(t, 2, results[0].Created)
	assert.Equal(t, 1, results[0].Updated)
	mockSource.AssertExpectations(t)
	mockCatalogRepo.AssertExpectations(t)
}

func TestSyncUsecase_SyncAll_ResolvesUploadsWhenMissing(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	mockSource.On("ResolveUploadsPlaylist", mock.Anything, "teded-channel").
		Return("UU-teded", nil).Once()
	mockSource.On("ListPlaylistVideoIDs", mock.Anything, "UU-teded", 0).
		Return([]string{"e1"}, nil).Once()
	mockSource.On("FetchVideoDetails", mock.Anything, model.ChannelTEDEd, []string{"e1"}).
		Return(makeItems("e1"), nil).Once()
	mockCatalogRepo.On("Upsert", mock.Anything, mock.Anything).Return(true, nil).Once()
	mockCatalogRepo.On("CountByChannel", mock.Anything, model.ChannelTEDEd).Return(int64(1), nil)

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", []usecase.ChannelPlan{
		{Channel: model.ChannelTEDEd, ChannelID: "teded-channel", Strategy: model.SyncFull},
	})

	results := syncUsecase.SyncAll(context.Background())

	assert.Len(t, results, 1)
	mockSource.AssertExpectations(t)
}

func TestSyncUsecase_SyncAll_CappedStrategyMergesPasses(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	// The two passes overlap on x2; the merged fetch must carry it once.
	mockSource.On("SearchChannelVideoIDs", mock.Anything, "tedx-channel", "date", 2).
		Return([]string{"x1", "x2"}, nil).Once()
	mockSource.On("SearchChannelVideoIDs", mock.Anything, "tedx-channel", "viewCount", 2).
		Return([]string{"x2", "x3"}, nil).Once()
	mockSource.On("FetchVideoDetails", mock.Anything, model.ChannelTEDx, mock.MatchedBy(func(ids []string) bool {
		if len(ids) != 3 {
			return false
		}
		seen := make(map[string]bool)
		for _, id := range ids {
			seen[id] = true
		}
		return seen["x1"] && seen["x2"] && seen["x3"]
	})).Return(makeItems("x1", "x2", "x3"), nil).Once()
	mockCatalogRepo.On("Upsert", mock.Anything, mock.Anything).Return(true, nil).Times(3)
	mockCatalogRepo.On("CountByChannel", mock.Anything, model.ChannelTEDx).Return(int64(3), nil)

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", []usecase.ChannelPlan{
		{Channel: model.ChannelTEDx, ChannelID: "tedx-channel", Strategy: model.SyncCapped, Limit: 4},
	})

	results := syncUsecase.SyncAll(context.Background())

	assert.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Fetched)
	mockSource.AssertExpectations(t)
	mockCatalogRepo.AssertExpectations(t)
}

func TestSyncUsecase_SyncAll_ChannelFailureDoesNotBlockOthers(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	mockSource.On("ListPlaylistVideoIDs", mock.Anything, "UU-ted", 0).
		Return(nil, assert.AnError).Once()
	mockSource.On("ListPlaylistVideoIDs", mock.Anything, "UU-teded", 0).
		Return([]string{"e1"}, nil).Once()
	mockSource.On("FetchVideoDetails", mock.Anything, model.ChannelTEDEd, []string{"e1"}).
		Return(makeItems("e1"), nil).Once()
	mockCatalogRepo.On("Upsert", mock.Anything, mock.Anything).Return(true, nil).Once()
	mockCatalogRepo.On("CountByChannel", mock.Anything, model.ChannelTEDEd).Return(int64(1), nil)

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", []usecase.ChannelPlan{
		{Channel: model.ChannelTED, UploadsID: "UU-ted", Strategy: model.SyncFull},
		{Channel: model.ChannelTEDEd, UploadsID: "UU-teded", Strategy: model.SyncFull},
	})

	results := syncUsecase.SyncAll(context.Background())

	assert.Len(t, results, 1)
	assert.Equal(t, model.ChannelTEDEd, results[0].Channel)
	mockSource.AssertExpectations(t)
}

func TestSyncUsecase_RefreshChannels_FiltersRequested(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	mockSource.On("ListPlaylistVideoIDs", mock.Anything, "UU-teded", 0).
		Return([]string{"e1"}, nil).Once()
	mockSource.On("FetchVideoDetails", mock.Anything, model.ChannelTEDEd, []string{"e1"}).
		Return(makeItems("e1"), nil).Once()
	mockCatalogRepo.On("Upsert", mock.Anything, mock.Anything).Return(false, nil).Once()

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", []usecase.ChannelPlan{
		{Channel: model.ChannelTED, UploadsID: "UU-ted", Strategy: model.SyncFull},
		{Channel: model.ChannelTEDEd, UploadsID: "UU-teded", Strategy: model.SyncFull},
	})

	results, err := syncUsecase.RefreshChannels(context.Background(), "user-key", []model.Channel{model.ChannelTEDEd})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Updated)
	// TED was not requested, so its playlist is never walked.
	mockSource.AssertNotCalled(t, "ListPlaylistVideoIDs", mock.Anything, "UU-ted", 0)
}

func TestSyncUsecase_RefreshChannels_InvalidChannel(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", nil)

	_, err := syncUsecase.RefreshChannels(context.Background(), "user-key", []model.Channel{"nosuch"})

	assert.Error(t, err)
	assert.True(t, usecase.IsValidationError(err))
}

func TestSyncUsecase_RefreshChannels_NoKey(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "", nil)

	_, err := syncUsecase.RefreshChannels(context.Background(), "", nil)

	assert.Error(t, err)
}

func TestSyncUsecase_RefreshChannels_AllFailed(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockSource := new(MockSource)

	mockSource.On("ListPlaylistVideoIDs", mock.Anything, "UU-ted", 0).
		Return(nil, assert.AnError).Once()

	syncUsecase := usecase.NewSyncUsecase(mockCatalogRepo, sourceFactoryFor(mockSource), "server-key", []usecase.ChannelPlan{
		{Channel: model.ChannelTED, UploadsID: "UU-ted", Strategy: model.SyncFull},
	})

	_, err := syncUsecase.RefreshChannels(context.Background(), "", nil)

	assert.Error(t, err)
}
