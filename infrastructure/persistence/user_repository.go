package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const usersCollection = "users"

// ErrUserNotFound is returned when no user document matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository stores accounts with their embedded curation sets.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.IUser {
	return &UserRepository{col: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favourites == nil {
		user.Favourites = []model.CurationEntry{}
	}
	if user.Watched == nil {
		user.Watched = []model.CurationEntry{}
	}

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByUserName(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// AddFavourite pushes the id unless it is already present. The guard filter
// keeps the set duplicate-free without a read-modify-write cycle.
func (r *UserRepository) AddFavourite(ctx context.Context, userID, videoID string) (bool, error) {
	return r.addEntry(ctx, userID, "favourites", videoID)
}

func (r *UserRepository) RemoveFavourite(ctx context.Context, userID, videoID string) error {
	return r.removeEntry(ctx, userID, "favourites", videoID)
}

// AddWatched pushes the id unless it is already present.
func (r *UserRepository) AddWatched(ctx context.Context, userID, videoID string) (bool, error) {
	return r.addEntry(ctx, userID, "watched", videoID)
}

func (r *UserRepository) RemoveWatched(ctx context.Context, userID, videoID string) error {
	return r.removeEntry(ctx, userID, "watched", videoID)
}

func (r *UserRepository) addEntry(ctx context.Context, userID, field, videoID string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return false, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	entry := model.CurationEntry{VideoID: videoID, AddedAt: time.Now().UTC()}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, field + ".videoId": bson.M{"$ne": videoID}},
		bson.M{"$push": bson.M{field: entry}, "$set": bson.M{"updatedAt": entry.AddedAt}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add %s entry: %w", field, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserRepository) removeEntry(ctx context.Context, userID, field, videoID string) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$pull": bson.M{field: bson.M{"videoId": videoID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s entry: %w", field, err)
	}
	return nil
}
