package http

import (
	"errors"
	"fmt"
	"net/http"

	"ted-mirror/domain/dto"
	"ted-mirror/domain/model"
	"ted-mirror/infrastructure/logger"
	"ted-mirror/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

// IUserHandler covers authentication and the per-user curation endpoints.
type IUserHandler interface {
	Login(c *gin.Context)
	Register(c *gin.Context)

	GetFavourites(c *gin.Context)
	AddFavourite(c *gin.Context)
	RemoveFavourite(c *gin.Context)
	GetWatched(c *gin.Context)
	AddWatched(c *gin.Context)
	RemoveWatched(c *gin.Context)
	GetBucket(c *gin.Context)
}

type UserHandler struct {
	userUsecase    usecase.IUserUsecase
	catalogUsecase usecase.ICatalogUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase, catalogUsecase usecase.ICatalogUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase, catalogUsecase: catalogUsecase}
}

func (userHandler *UserHandler) Login(c *gin.Context) {
	var req model.ReqLogin

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	res := userHandler.userUsecase.Login(c.Request.Context(), req)

	c.JSON(http.StatusOK, res)
}

func (userHandler *UserHandler) Register(c *gin.Context) {
	var req model.ReqRegister

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	res := userHandler.userUsecase.Register(c.Request.Context(), req)

	c.JSON(http.StatusOK, res)
}

// GetFavourites handles GET /api/user/favourites
func (userHandler *UserHandler) GetFavourites(c *gin.Context) {
	response, err := userHandler.catalogUsecase.GetFavourites(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching favourites")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch favourites"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// AddFavourite handles POST /api/user/favourites
func (userHandler *UserHandler) AddFavourite(c *gin.Context) {
	videoID, ok := bindVideoID(c)
	if !ok {
		return
	}
	err := userHandler.userUsecase.AddFavourite(c.Request.Context(), c.GetString("user_id"), videoID)
	if err != nil {
		if errors.Is(err, usecase.ErrAlreadyFavourite) {
			c.JSON(http.StatusConflict, dto.CurationResponse{Success: false, Message: "Video already in favourites"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error while adding favourite")
		c.JSON(http.StatusInternalServerError, dto.CurationResponse{Success: false, Message: "Failed to add favourite"})
		return
	}
	c.JSON(http.StatusOK, dto.CurationResponse{Success: true, Message: "Added to favourites"})
}

// RemoveFavourite handles DELETE /api/user/favourites/:videoId
func (userHandler *UserHandler) RemoveFavourite(c *gin.Context) {
	err := userHandler.userUsecase.RemoveFavourite(c.Request.Context(), c.GetString("user_id"), c.Param("videoId"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while removing favourite")
		c.JSON(http.StatusInternalServerError, dto.CurationResponse{Success: false, Message: "Failed to remove favourite"})
		return
	}
	c.JSON(http.StatusOK, dto.CurationResponse{Success: true, Message: "Removed from favourites"})
}

// GetWatched handles GET /api/user/watched
func (userHandler *UserHandler) GetWatched(c *gin.Context) {
	response, err := userHandler.catalogUsecase.GetWatched(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching watched")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch watched"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// AddWatched handles POST /api/user/watched. Marking an already watched
// video is a success.
func (userHandler *UserHandler) AddWatched(c *gin.Context) {
	videoID, ok := bindVideoID(c)
	if !ok {
		return
	}
	err := userHandler.userUsecase.AddWatched(c.Request.Context(), c.GetString("user_id"), videoID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while marking watched")
		c.JSON(http.StatusInternalServerError, dto.CurationResponse{Success: false, Message: "Failed to mark watched"})
		return
	}
	c.JSON(http.StatusOK, dto.CurationResponse{Success: true, Message: "Marked as watched"})
}

// RemoveWatched handles DELETE /api/user/watched/:videoId
func (userHandler *UserHandler) RemoveWatched(c *gin.Context) {
	err := userHandler.userUsecase.RemoveWatched(c.Request.Context(), c.GetString("user_id"), c.Param("videoId"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarking watched")
		c.JSON(http.StatusInternalServerError, dto.CurationResponse{Success: false, Message: "Failed to unmark watched"})
		return
	}
	c.JSON(http.StatusOK, dto.CurationResponse{Success: true, Message: "Removed from watched"})
}

// GetBucket handles GET /api/user/bucket
func (userHandler *UserHandler) GetBucket(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "limit", defaultPageSize)

	response, err := userHandler.catalogUsecase.GetBucket(c.Request.Context(), c.GetString("user_id"), page, pageSize)
	if err != nil {
		if usecase.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error while fetching bucket")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch bucket"})
		return
	}
	c.JSON(http.StatusOK, response)
}

func bindVideoID(c *gin.Context) (string, bool) {
	var req dto.CurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CurationResponse{Success: false, Message: "videoId is required"})
		return "", false
	}
	return req.VideoID, true
}
