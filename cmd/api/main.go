package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IvanKorch1289/foodgram/config"
	"github.com/IvanKorch1289/foodgram/internal/api"
	"github.com/IvanKorch1289/foodgram/internal/database"
	"github.com/IvanKorch1289/foodgram/internal/router"
	"github.com/IvanKorch1289/foodgram/internal/server"
	"github.com/IvanKorch1289/foodgram/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(db, migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional; the catalog services fall back to the
	// database when no cache is reachable.
	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, catalog caching disabled: %v", err)
		cache = nil
	}

	var images service.ImageStore
	if s3cfg, err := config.NewS3Config(context.Background(), cfg.S3Bucket); err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		images = service.NewImageService(s3cfg)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db, images)
	viewService := service.NewViewService(db)
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)
	cartService := service.NewCartService(db)
	followService := service.NewFollowService(db)
	shoppingListService := service.NewShoppingListService(db)
	tagService := service.NewTagService(db, cache)
	ingredientService := service.NewIngredientService(db, cache)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService, viewService),
		api.NewUserHandler(userService, followService, viewService),
		api.NewRecipeHandler(recipeService, viewService, favoriteService, cartService, shoppingListService, images),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		authService,
	)

	srv := server.New(engine, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
