package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"ted-mirror/domain/model"
	"ted-mirror/infrastructure/persistence"
	"ted-mirror/infrastructure/utils"
	"ted-mirror/usecase"
)

func TestUserUsecase_Login(t *testing.T) {
	mockUserRepo := new(MockUserRepository)

	user := &model.User{
		Email:    "ada@example.com",
		UserName: "ada",
		Password: utils.HashPassword("hunter2"),
	}
	mockUserRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	res := userUsecase.Login(context.Background(), model.ReqLogin{Email: "ada@example.com", Password: "hunter2"})

	assert.Equal(t, "200", res.ResponseCode)
	data := res.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	mockUserRepo.AssertExpectations(t)
}

func TestUserUsecase_Login_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)

	user := &model.User{
		Email:    "ada@example.com",
		Password: utils.HashPassword("hunter2"),
	}
	mockUserRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	res := userUsecase.Login(context.Background(), model.ReqLogin{Email: "ada@example.com", Password: "wrong"})

	assert.Equal(t, "401", res.ResponseCode)
}

func TestUserUsecase_Login_UnknownEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, persistence.ErrUserNotFound).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	res := userUsecase.Login(context.Background(), model.ReqLogin{Email: "ghost@example.com", Password: "x"})

	assert.Equal(t, "401", res.ResponseCode)
}

func TestUserUsecase_Register(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "new@example.com").
		Return(nil, persistence.ErrUserNotFound).Once()
	mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" && u.Password == utils.HashPassword("secret")
	})).Return(nil).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	res := userUsecase.Register(context.Background(), model.ReqRegister{
		Email:    "new@example.com",
		UserName: "newbie",
		Password: "secret",
	})

	assert.Equal(t, "200", res.ResponseCode)
	mockUserRepo.AssertExpectations(t)
}

func TestUserUsecase_Register_DuplicateEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&model.User{Email: "taken@example.com"}, nil).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	res := userUsecase.Register(context.Background(), model.ReqRegister{
		Email:    "taken@example.com",
		UserName: "dup",
		Password: "secret",
	})

	assert.Equal(t, "400", res.ResponseCode)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUsecase_Register_BadAPIKey(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSource := new(MockSource)

	mockUserRepo.On("GetByEmail", mock.Anything, "keyed@example.com").
		Return(nil, persistence.ErrUserNotFound).Once()
	mockSource.On("ValidateKey", mock.Anything).Return(assert.AnError).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, sourceFactoryFor(mockSource))
	res := userUsecase.Register(context.Background(), model.ReqRegister{
		Email:         "keyed@example.com",
		UserName:      "keyed",
		Password:      "secret",
		YouTubeAPIKey: "bad-key",
	})

	assert.Equal(t, "400", res.ResponseCode)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSource.AssertExpectations(t)
}

func TestUserUsecase_AddFavourite_Duplicate(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("AddFavourite", mock.Anything, "user-1", "v1").Return(false, nil).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	err := userUsecase.AddFavourite(context.Background(), "user-1", "v1")

	assert.ErrorIs(t, err, usecase.ErrAlreadyFavourite)
}

func TestUserUsecase_AddWatched_Idempotent(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	// Second mark changes nothing in the store but still succeeds.
	mockUserRepo.On("AddWatched", mock.Anything, "user-1", "v1").Return(false, nil).Once()

	userUsecase := usecase.NewUserUsecase(mockUserRepo, nil)
	err := userUsecase.AddWatched(context.Background(), "user-1", "v1")

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}
