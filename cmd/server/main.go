package main

import (
	"context"
	"log"
	"net/http"

	"dealership/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"dealership/internal/auth"
	"dealership/internal/cache"
	"dealership/internal/config"
	"dealership/internal/db"
	"dealership/internal/handler"
	"dealership/internal/model"
	"dealership/internal/repository"
	"dealership/internal/router"
	"dealership/internal/service"
	"dealership/internal/storage"
)

// @title Car Dealership API
// @version 1.0
// @description Vehicle catalog backend with JWT authentication, multi-criteria search, and per-car image galleries.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Car{},
		&model.Image{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	objectStorage, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioUseSSL,
		cfg.MinioPublicURL,
	)
	if err != nil {
		log.Fatalf("object storage init: %v", err)
	}

	// Initialize repositories
	carRepo := repository.NewCarRepository(gormDB)
	imageRepo := repository.NewImageRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService)
	carService := service.NewCarService(carRepo, imageRepo, objectStorage, cacheClient)

	// Bootstrap the admin account when no users exist yet.
	if err := bootstrapAdmin(authService, userRepo, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	carHandler := handler.NewCarHandler(carService)

	// Register routes
	router.Register(e, cfg, authHandler, carHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func bootstrapAdmin(authService service.AuthService, userRepo repository.UserRepository, cfg *config.Config) error {
	ctx := context.Background()

	count, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := authService.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword, auth.RoleAdmin); err != nil {
		return err
	}
	log.Printf("created initial admin user %q", cfg.AdminUsername)
	return nil
}
