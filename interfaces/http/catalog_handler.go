package http

import (
	"net/http"
	"strconv"

	"ted-mirror/domain/dto"
	"ted-mirror/domain/model"
	"ted-mirror/infrastructure/logger"
	"ted-mirror/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
)

// ICatalogHandler defines the catalog HTTP handlers.
type ICatalogHandler interface {
	GetVideos(ctx *gin.Context)
	Refresh(ctx *gin.Context)
}

type CatalogHandler struct {
	catalogUsecase usecase.ICatalogUsecase
	syncUsecase    usecase.ISyncUsecase
	userUsecase    usecase.IUserUsecase
}

func NewCatalogHandler(catalogUsecase usecase.ICatalogUsecase, syncUsecase usecase.ISyncUsecase, userUsecase usecase.IUserUsecase) ICatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		syncUsecase:    syncUsecase,
		userUsecase:    userUsecase,
	}
}

// GetVideos handles GET /api/videos/:channel
func (h *CatalogHandler) GetVideos(ctx *gin.Context) {
	req := dto.VideoListRequest{
		Channel:  ctx.Param("channel"),
		SortBy:   ctx.Query("sortBy"),
		Page:     queryInt(ctx, "page", 1),
		PageSize: queryInt(ctx, "limit", defaultPageSize),
	}

	response, err := h.catalogUsecase.ListVideos(ctx.Request.Context(), req)
	if err != nil {
		if usecase.IsValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error while listing videos")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list videos"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Refresh handles POST /api/videos/refresh. The caller's stored API key is
// preferred; without one the sync falls back to the server key, and when
// neither exists the response flags that a key is needed.
func (h *CatalogHandler) Refresh(ctx *gin.Context) {
	var req dto.RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	userID := ctx.GetString("user_id")
	user, err := h.userUsecase.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while loading user for refresh")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load user"})
		return
	}

	var channels []model.Channel
	if req.Channel != "" && req.Channel != "all" {
		channels = append(channels, model.Channel(req.Channel))
	}

	results, err := h.syncUsecase.RefreshChannels(ctx.Request.Context(), user.YouTubeAPIKey, channels)
	if err != nil {
		if usecase.IsValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		status := http.StatusBadGateway
		needsKey := user.YouTubeAPIKey == ""
		if needsKey {
			status = http.StatusForbidden
		}
		ctx.JSON(status, dto.RefreshResponse{
			Success:        false,
			Message:        err.Error(),
			UsedUserAPIKey: user.YouTubeAPIKey != "",
			NeedsAPIKey:    needsKey,
		})
		return
	}

	resp := dto.RefreshResponse{
		Success:        true,
		Message:        "Refresh completed",
		Results:        results,
		UsedUserAPIKey: user.YouTubeAPIKey != "",
	}
	for _, r := range results {
		resp.Created += r.Created
		resp.Updated += r.Updated
		resp.Channels = append(resp.Channels, r.Channel)
	}
	ctx.JSON(http.StatusOK, resp)
}

func queryInt(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
