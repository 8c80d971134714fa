package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ted-mirror/domain/dto"
	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/usecase"
)

// Mock implementations
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Upsert(ctx context.Context, item model.CatalogItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) Find(ctx context.Context, q repository.CatalogQuery) ([]model.CatalogItem, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.CatalogItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) FindByIDs(ctx context.Context, ids []string) ([]model.CatalogItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) CountByChannel(ctx context.Context, channel model.Channel) (int64, error) {
	args := m.Called(ctx, channel)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) AddFavourite(ctx context.Context, userID, videoID string) (bool, error) {
	args := m.Called(ctx, userID, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RemoveFavourite(ctx context.Context, userID, videoID string) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func (m *MockUserRepository) AddWatched(ctx context.Context, userID, videoID string) (bool, error) {
	args := m.Called(ctx, userID, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RemoveWatched(ctx context.Context, userID, videoID string) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func makeItems(ids ...string) []model.CatalogItem {
	items := make([]model.CatalogItem, 0, len(ids))
	for i, id := range ids {
		items = append(items, model.CatalogItem{
			YouTubeID:   id,
			Channel:     model.ChannelTED,
			Title:       "Video " + id,
			Views:       int64(1000 - i),
			PublishedAt: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
	}
	return items
}

func TestCatalogUsecase_ListVideos(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockUserRepo := new(MockUserRepository)

	items := makeItems("a", "b", "c")
	mockCatalogRepo.On("Find", mock.Anything, repository.CatalogQuery{
		Channel: model.ChannelTED,
		Sort:    model.SortRecent,
		Skip:    0,
		Limit:   20,
	}).Return(items, int64(45), nil).Once()

	catalogUsecase := usecase.NewCatalogUsecase(mockCatalogRepo, mockUserRepo)
	response, err := catalogUsecase.ListVideos(context.Background(), dto.VideoListRequest{
		Channel:  "ted",
		Page:     1,
		PageSize: 20,
	})

	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, 3, response.Count)
	assert.Equal(t, int64(45), response.Total)
	assert.True(t, response.HasMore)
	mockCatalogRepo.AssertExpectations(t)
}

func TestCatalogUsecase_ListVideos_LastPage(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockUserRepo := new(MockUserRepository)

	// 45 items total, page 3 of size 20 holds the last 5; no further page.
	items := makeItems("a", "b", "c", "d", "e")
	mockCatalogRepo.On("Find", mock.Anything, repository.CatalogQuery{
		Channel: model.ChannelTED,
		Sort:    model.SortPopular,
		Skip:    40,
		Limit:   20,
	}).Return(items, int64(45), nil).Once()

	catalogUsecase := usecase.NewCatalogUsecase(mockCatalogRepo, mockUserRepo)
	response, err := catalogUsecase.ListVideos(context.Background(), dto.VideoListRequest{
		Channel:  "ted",
		SortBy:   "popular",
		Page:     3,
		PageSize: 20,
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, response.Count)
	assert.False(t, response.HasMore)
	mockCatalogRepo.AssertExpectations(t)
}

func TestCatalogUsecase_ListVideos_EmptyPastEnd(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockUserRepo := new(MockUserRepository)

	mockCatalogRepo.On("Find", mock.Anything, mock.Anything).
		Return([]model.CatalogItem{}, int64(45), nil).Once()

	catalogUsecase := usecase.NewCatalogUsecase(mockCatalogRepo, mockUserRepo)
	response, err := catalogUsecase.ListVideos(context.Background(), dto.VideoListRequest{
		Channel:  "ted",
		Page:     99,
		PageSize: 20,
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, response.Count)
	assert.False(t, response.HasMore)
}

func TestCatalogUsecase_ListVideos_Validation(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockUserRepo := new(MockUserRepository)
	catalogUsecase := usecase.NewCatalogUsecase(mockCatalogRepo, mockUserRepo)

	cases := []dto.VideoListRequest{
		{Channel: "nosuch", Page: 1, PageSize: 20},
		{Channel: "ted", SortBy: "alphabetical", Page: 1, PageSize: 20},
		{Channel: "ted", Page: 0, PageSize: 20},
		{Channel: "ted", Page: 1, PageSize: 0},
		{Channel: "ted", Page: 1, PageSize: 101},
		{Channel: "ted", Page: -3, PageSize: 20},
	}
	for _, req := range cases {
		_, err := catalogUsecase.ListVideos(context.Background(), req)
		assert.Error(t, err, "req=%+v", req)
		assert.True(t, usecase.IsValidationError(err), "req=%+v", req)
	}

	// The store is never touched on validation failures.
	mockCatalogRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestCatalogUsecase_GetBucket_ExcludesWatched(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockUserRepo := new(MockUserRepository)

	user := &model.User{
		Watched: []model.CurationEntry{{VideoID: "w1"}, {VideoID: "w2"}},
	}
	mockUserRepo.On("GetByID", mock.Anything, "user-1").Return(user, nil).Once()
	mockCatalogRepo.On("Find", mock.Anything, repository.CatalogQuery{
		Sort:       model.SortPopular,
		Skip:       0,
		Limit:      20,
		ExcludeIDs: []string{"w1", "w2"},
	}).Return(makeItems("a", "b"), int64(2), nil).Once()

	catalogUsecase := usecase.NewCatalogUsecase(mockCatalogRepo, mockUserRepo)
	response, err := catalogUsecase.GetBucket(context.Background(), "user-1", 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 2, response.Count)
	assert.False(t, response.HasMore)
	mockUserRepo.AssertExpectations(t)
	mockCatalogRepo.AssertExpectations(t)
}

func TestCatalogUsecase_GetFavourites(t *testing.T) {
	mockCatalogRepo := new(MockCatalogRepository)
	mockUserRepo := new(MockUserRepository)

	user := &model.User{
		Favourites: []model.CurationEntry{{VideoID: "f1"}, {VideoID: "f2"}},
	}
	mockUserRepo.On("GetByID", mock.Anything, "user-1").Return(user, nil).Once()
	// f2 is no longer in the catalog; the join silently omits it.
	mockCatalogRepo.On("FindByIDs", mock.Anything, []string{"f1", "f2"}).
		Return(makeItems("f1"), nil).Once()

	catalogUsecase := usecase.NewCatalogUsecase(mockCatalogRepo, mockUserRepo)
	response, err := catalogUsecase.GetFavourites(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "f1", response.Data[0].YouTubeID)
	mockUserRepo.AssertExpectations(t)
	mockCatalogRepo.AssertExpectations(t)
}
