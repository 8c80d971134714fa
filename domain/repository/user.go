package repository

import (
	"context"

	"ted-mirror/domain/model"
)

// IUser defines the account store including the per-user curation sets.
// Set mutations are idempotent: adding an id twice keeps a single entry,
// removing an absent id is a no-op.
type IUser interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUserName(ctx context.Context, username string) (*model.User, error)

	// AddFavourite reports false when the id was already in the set.
	AddFavourite(ctx context.Context, userID, videoID string) (bool, error)
	RemoveFavourite(ctx context.Context, userID, videoID string) error
	// AddWatched reports false when the id was already in the set.
	AddWatched(ctx context.Context, userID, videoID string) (bool, error)
	RemoveWatched(ctx context.Context, userID, videoID string) error
}
