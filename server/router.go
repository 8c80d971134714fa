package server

import (
	"time"

	"ted-mirror/domain/repository"
	httpHandler "ted-mirror/interfaces/http"
	"ted-mirror/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	catalogHandler httpHandler.ICatalogHandler,
	healthHandler httpHandler.IHealthHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:4200", "https://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", healthHandler.Health)
	router.POST("/healthz", healthHandler.Health)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	videos := api.Group("/videos")
	{
		videos.GET("/:channel", catalogHandler.GetVideos)
		videos.POST("/refresh", catalogHandler.Refresh)
	}

	user := api.Group("/user")
	{
		user.GET("/favourites", userHandler.GetFavourites)
		user.POST("/favourites", userHandler.AddFavourite)
		user.DELETE("/favourites/:videoId", userHandler.RemoveFavourite)

		user.GET("/watched", userHandler.GetWatched)
		user.POST("/watched", userHandler.AddWatched)
		user.DELETE("/watched/:videoId", userHandler.RemoveWatched)

		user.GET("/bucket", userHandler.GetBucket)
	}

	return router
}
