package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, nil)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg.DB)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, cfg.DB.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis is optional; without it tokens cannot be revoked and recipe
	// creation is not rate limited.
	var redisClient *redis.Client
	var denylist service.TokenDenylist
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without denylist and rate limiting")
		} else {
			defer redisClient.Close()
			denylist = service.NewRedisDenylist(redisClient)
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialise image storage: %w", err)
	}

	users := repository.NewUserStore(db)
	recipes := repository.NewRecipeStore(db)
	tags := repository.NewTagStore(db)
	ingredients := repository.NewIngredientStore(db)
	favorites := repository.NewFavoriteStore(db)
	carts := repository.NewShoppingCartStore(db)
	follows := repository.NewFollowStore(db)
	images := service.NewImageService(store)

	deps := router.Dependencies{
		Auth:      service.NewAuthService(users, cfg.JWT.Secret, cfg.JWT.TTL, denylist),
		Users:     service.NewUserService(users, follows),
		Recipes:   service.NewRecipeService(recipes, tags, ingredients, favorites, carts, follows, images),
		Relations: service.NewRelationService(recipes, users, favorites, carts, follows, images),
		Shopping:  service.NewShoppingListService(carts),
		Reference: service.NewReferenceService(tags, ingredients),
		DBPing: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
		CORSOrigins: cfg.CORS.Origins,
	}
	if redisClient != nil {
		deps.RateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimit.RecipeCreatePerHour)
	}
	if local, ok := store.(*storage.LocalStore); ok && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		deps.MediaDir = local.Dir()
		deps.MediaURL = cfg.Storage.PublicURL
	}

	return server.New(cfg.Server, router.SetupRouter(deps)).Run(ctx)
}
