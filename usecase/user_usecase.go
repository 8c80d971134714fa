package usecase

import (
	"context"
	"errors"
	"time"

	"ted-mirror/domain/dto"
	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/infrastructure/configuration"
	"ted-mirror/infrastructure/logger"
	"ted-mirror/infrastructure/persistence"
	"ted-mirror/infrastructure/utils"
)

// ErrAlreadyFavourite signals a duplicate favourite add; watched adds are
// silently idempotent instead.
var ErrAlreadyFavourite = errors.New("already in favourites")

// IUserUsecase covers accounts and the per-user curation sets.
type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
	GetUser(ctx context.Context, userID string) (*model.User, error)

	AddFavourite(ctx context.Context, userID, videoID string) error
	RemoveFavourite(ctx context.Context, userID, videoID string) error
	AddWatched(ctx context.Context, userID, videoID string) error
	RemoveWatched(ctx context.Context, userID, videoID string) error
}

type UserUsecase struct {
	userRepo  repository.IUser
	newSource repository.SourceFactory // optional; probes registered API keys
}

func NewUserUsecase(userRepo repository.IUser, newSource repository.SourceFactory) IUserUsecase {
	return &UserUsecase{userRepo: userRepo, newSource: newSource}
}

// Login verifies credentials and issues a JWT whose issuer is the user id.
func (u *UserUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	user, err := u.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			return dto.Res{ResponseCode: "401", ResponseMessage: "Invalid email or password"}
		}
		logger.GetLogger().WithField("error", err).Error("Error while fetching user")
		return dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"}
	}

	if user.Password != utils.HashPassword(req.Password) {
		return dto.Res{ResponseCode: "401", ResponseMessage: "Invalid email or password"}
	}

	token, err := utils.GenerateToken(map[string]interface{}{
		"username": user.UserName,
		"iss":      user.ID.Hex(),
		"iat":      utils.GetCurrentTime().Unix(),
		"exp":      utils.GetCurrentTime().Add(24 * time.Hour).Unix(),
	}, configuration.C.App.SecretKey)
	if err != nil {
		return dto.Res{ResponseCode: "500", ResponseMessage: "Could not issue token"}
	}

	return dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "OK",
		Data: map[string]interface{}{
			"token":     token,
			"user":      user,
			"hasApiKey": user.YouTubeAPIKey != "",
		},
	}
}

// Register creates an account. The caller's YouTube API key is stored for
// on-demand refresh; when a source factory is configured the key is probed
// against the source before the account is created.
func (u *UserUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	if _, err := u.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return dto.Res{ResponseCode: "400", ResponseMessage: "Email already registered"}
	} else if !errors.Is(err, persistence.ErrUserNotFound) {
		logger.GetLogger().WithField("error", err).Error("Error while checking email")
		return dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"}
	}

	if req.YouTubeAPIKey != "" && u.newSource != nil {
		source, err := u.newSource(ctx, req.YouTubeAPIKey)
		if err == nil {
			err = source.ValidateKey(ctx)
		}
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("API key validation failed on register")
			return dto.Res{ResponseCode: "400", ResponseMessage: "Invalid YouTube API key or quota exceeded"}
		}
	}

	user := &model.User{
		Email:         req.Email,
		UserName:      req.UserName,
		Password:      utils.HashPassword(req.Password),
		YouTubeAPIKey: req.YouTubeAPIKey,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating user")
		return dto.Res{ResponseCode: "500", ResponseMessage: "Could not create user"}
	}

	return dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: user}
}

func (u *UserUsecase) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// AddFavourite rejects duplicates with ErrAlreadyFavourite.
func (u *UserUsecase) AddFavourite(ctx context.Context, userID, videoID string) error {
	added, err := u.userRepo.AddFavourite(ctx, userID, videoID)
	if err != nil {
		return err
	}
	if !added {
		return ErrAlreadyFavourite
	}
	return nil
}

func (u *UserUsecase) RemoveFavourite(ctx context.Context, userID, videoID string) error {
	return u.userRepo.RemoveFavourite(ctx, userID, videoID)
}

// AddWatched is idempotent: marking an already watched video succeeds.
func (u *UserUsecase) AddWatched(ctx context.Context, userID, videoID string) error {
	_, err := u.userRepo.AddWatched(ctx, userID, videoID)
	return err
}

func (u *UserUsecase) RemoveWatched(ctx context.Context, userID, videoID string) error {
	return u.userRepo.RemoveWatched(ctx, userID, videoID)
}
