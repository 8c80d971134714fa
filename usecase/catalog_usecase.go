package usecase

import (
	"context"
	"errors"
	"fmt"

	"ted-mirror/domain/dto"
	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/infrastructure/cache"
)

// Validation errors are rejected before any store access.
var (
	ErrInvalidChannel    = errors.New("unknown channel")
	ErrInvalidSortMode   = errors.New("invalid sort mode")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)

// IsValidationError reports whether err is a query validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidChannel) ||
		errors.Is(err, ErrInvalidSortMode) ||
		errors.Is(err, ErrInvalidPagination)
}

// ICatalogUsecase answers catalog reads and per-user composed views.
type ICatalogUsecase interface {
	ListVideos(ctx context.Context, req dto.VideoListRequest) (*dto.VideoListResponse, error)
	GetBucket(ctx context.Context, userID string, page, pageSize int) (*dto.VideoListResponse, error)
	GetFavourites(ctx context.Context, userID string) (*dto.VideoSetResponse, error)
	GetWatched(ctx context.Context, userID string) (*dto.VideoSetResponse, error)
}

// CatalogUsecase implements catalog queries over the store with an optional
// page cache in front of the plain list query.
type CatalogUsecase struct {
	catalogRepo repository.ICatalog
	userRepo    repository.IUser
	pageCache   *cache.CatalogCache // optional
}

func NewCatalogUsecase(catalogRepo repository.ICatalog, userRepo repository.IUser) *CatalogUsecase {
	return &CatalogUsecase{catalogRepo: catalogRepo, userRepo: userRepo}
}

// WithPageCache enables the list-page cache (fluent).
func (u *CatalogUsecase) WithPageCache(c *cache.CatalogCache) *CatalogUsecase {
	u.pageCache = c
	return u
}

// ListVideos returns one catalog page. Channel is a tag or "all"; sortBy is
// recent or popular; page >= 1 and pageSize in [1,100] are hard requirements,
// not silently clamped.
func (u *CatalogUsecase) ListVideos(ctx context.Context, req dto.VideoListRequest) (*dto.VideoListResponse, error) {
	var channel model.Channel
	if req.Channel != "all" {
		channel = model.Channel(req.Channel)
		if !channel.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChannel, req.Channel)
		}
	}

	sortBy := model.SortMode(req.SortBy)
	if req.SortBy == "" {
		sortBy = model.SortRecent
	} else if !sortBy.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortMode, req.SortBy)
	}

	if err := validatePagination(req.Page, req.PageSize); err != nil {
		return nil, err
	}

	key := cache.PageKey(req.Channel, string(sortBy), req.Page, req.PageSize)
	if page, ok := u.pageCache.GetPage(ctx, key); ok {
		return page, nil
	}

	skip := (req.Page - 1) * req.PageSize
	items, total, err := u.catalogRepo.Find(ctx, repository.CatalogQuery{
		Channel: channel,
		Sort:    sortBy,
		Skip:    skip,
		Limit:   req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	resp := &dto.VideoListResponse{
		Success: true,
		Count:   len(items),
		Total:   total,
		Page:    req.Page,
		HasMore: total > int64(skip+len(items)),
		Data:    items,
	}
	u.pageCache.SetPage(ctx, key, resp)
	return resp, nil
}

// GetBucket returns the catalog minus the user's watched set, most popular
// first, with the same pagination contract as ListVideos.
func (u *CatalogUsecase) GetBucket(ctx context.Context, userID string, page, pageSize int) (*dto.VideoListResponse, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	skip := (page - 1) * pageSize
	items, total, err := u.catalogRepo.Find(ctx, repository.CatalogQuery{
		Sort:       model.SortPopular,
		Skip:       skip,
		Limit:      pageSize,
		ExcludeIDs: user.WatchedIDs(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query bucket: %w", err)
	}

	return &dto.VideoListResponse{
		Success: true,
		Count:   len(items),
		Total:   total,
		Page:    page,
		HasMore: total > int64(skip+len(items)),
		Data:    items,
	}, nil
}

// GetFavourites joins the user's favourite ids against the catalog, most
// popular first. Unpaginated: curated sets stay small.
func (u *CatalogUsecase) GetFavourites(ctx context.Context, userID string) (*dto.VideoSetResponse, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	items, err := u.catalogRepo.FindByIDs(ctx, user.FavouriteIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to query favourites: %w", err)
	}
	return &dto.VideoSetResponse{Success: true, Data: items}, nil
}

// GetWatched joins the user's watched ids against the catalog, most popular
// first.
func (u *CatalogUsecase) GetWatched(ctx context.Context, userID string) (*dto.VideoSetResponse, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	items, err := u.catalogRepo.FindByIDs(ctx, user.WatchedIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to query watched: %w", err)
	}
	return &dto.VideoSetResponse{Success: true, Data: items}, nil
}

func validatePagination(page, pageSize int) error {
	if page < 1 || pageSize < 1 || pageSize > 100 {
		return fmt.Errorf("%w: page=%d pageSize=%d", ErrInvalidPagination, page, pageSize)
	}
	return nil
}
