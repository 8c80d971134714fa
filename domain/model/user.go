package model

import (
	"time"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CurationEntry is one membership record in a per-user id set.
type CurationEntry struct {
	VideoID string    `json:"videoId" bson:"videoId"`
	AddedAt time.Time `json:"addedAt" bson:"addedAt"`
}

// User holds the account plus the two per-user curation sets. The sets are
// stored as arrays with timestamps; membership checks must go through the
// *Set accessors so lookups stay constant-time.
type User struct {
	ID            bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Email         string          `json:"email" bson:"email"`
	UserName      string          `json:"username" bson:"username"`
	Password      string          `json:"-" bson:"password"`
	YouTubeAPIKey string          `json:"-" bson:"youtubeApiKey"`
	Favourites    []CurationEntry `json:"favourites" bson:"favourites"`
	Watched       []CurationEntry `json:"watched" bson:"watched"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// FavouriteSet returns the favourite video ids as a hashed set.
func (u *User) FavouriteSet() map[string]struct{} {
	return entrySet(u.Favourites)
}

// WatchedSet returns the watched video ids as a hashed set.
func (u *User) WatchedSet() map[string]struct{} {
	return entrySet(u.Watched)
}

// WatchedIDs returns the watched video ids in stored order.
func (u *User) WatchedIDs() []string {
	return entryIDs(u.Watched)
}

// FavouriteIDs returns the favourite video ids in stored order.
func (u *User) FavouriteIDs() []string {
	return entryIDs(u.Favourites)
}

func entrySet(entries []CurationEntry) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.VideoID] = struct{}{}
	}
	return set
}

func entryIDs(entries []CurationEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.VideoID)
	}
	return ids
}

// ReqLogin is the login request body.
type ReqLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ReqRegister is the registration request body.
type ReqRegister struct {
	Email         string `json:"email" binding:"required"`
	UserName      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	YouTubeAPIKey string `json:"youtubeApiKey"`
}

// UserClaims carries the authenticated user id in the Issuer field.
type UserClaims struct {
	UserName string `json:"username"`
	jwt.StandardClaims
}
