package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ted-mirror/domain/model"
	"ted-mirror/domain/repository"
	"ted-mirror/infrastructure/cache"
	youtubeclient "ted-mirror/infrastructure/clients/youtube"
	"ted-mirror/infrastructure/configuration"
	"ted-mirror/infrastructure/logger"
	"ted-mirror/infrastructure/persistence"
	"ted-mirror/infrastructure/scheduler"
	httpHandler "ted-mirror/interfaces/http"
	"ted-mirror/server"
	"ted-mirror/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	mongoClient, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to MongoDB")
		os.Exit(1)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("MongoDB ping failed")
		os.Exit(1)
	}
	logger.GetLogger().Info("MongoDB connected successfully")
	mongoDb := mongoClient.Database(configuration.C.Database.Mongo.Name)

	catalogRepository := persistence.NewCatalogRepository(mongoDb)
	if err := catalogRepository.EnsureIndexes(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while ensuring catalog indexes")
	}
	userRepository := persistence.NewUserRepository(mongoDb)

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without page cache")
		redisClient = nil
	}

	syncCfg := configuration.C.Sync
	newSource := repository.SourceFactory(func(ctx context.Context, apiKey string) (repository.ISource, error) {
		return youtubeclient.NewClient(ctx, &youtubeclient.Config{
			APIKey:      apiKey,
			BatchSize:   syncCfg.BatchSize,
			Pacing:      syncCfg.Pacing(),
			CallTimeout: syncCfg.CallTimeout(),
		})
	})

	plans := channelPlans(configuration.C.YouTube.Channels)
	syncUsecase := usecase.NewSyncUsecase(catalogRepository, newSource, configuration.C.YouTube.APIKey, plans)
	catalogUsecase := usecase.NewCatalogUsecase(catalogRepository, userRepository).
		WithPageCache(cache.NewCatalogCache(redisClient, 60*time.Second))
	userUsecase := usecase.NewUserUsecase(userRepository, newSource)

	userHandler := httpHandler.NewUserHandler(userUsecase, catalogUsecase)
	catalogHandler := httpHandler.NewCatalogHandler(catalogUsecase, syncUsecase, userUsecase)
	healthHandler := httpHandler.NewHealthHandler()

	router := server.InitiateRouter(userHandler, catalogHandler, healthHandler, userRepository)

	if configuration.C.YouTube.APIKey != "" {
		syncScheduler := scheduler.New(syncUsecase, syncCfg.Interval())
		g.Go(func() error {
			if err := syncScheduler.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.GetLogger().Warn("YouTube API key not configured - background sync disabled, refresh requires a user key")
	}

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// channelPlans orders configured channels in the fixed sync order of the
// known tags; entries under unknown tags are ignored.
func channelPlans(channels map[string]configuration.ChannelConfig) []usecase.ChannelPlan {
	plans := make([]usecase.ChannelPlan, 0, len(channels))
	for _, tag := range model.AllChannels() {
		cfg, ok := channels[string(tag)]
		if !ok {
			continue
		}
		strategy := model.SyncFull
		if cfg.Strategy == "capped" {
			strategy = model.SyncCapped
		}
		plans = append(plans, usecase.ChannelPlan{
			Channel:   tag,
			ChannelID: cfg.ChannelID,
			UploadsID: cfg.UploadsID,
			Strategy:  strategy,
			Limit:     cfg.Limit,
		})
	}
	return plans
}
