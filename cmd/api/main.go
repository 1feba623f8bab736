package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/config"
	"github.com/classboard/rollcall-api/internal/database"
	"github.com/classboard/rollcall-api/internal/handler"
	"github.com/classboard/rollcall-api/internal/middleware"
	"github.com/classboard/rollcall-api/internal/models"
	"github.com/classboard/rollcall-api/internal/realtime"
	"github.com/classboard/rollcall-api/internal/repository"
	"github.com/classboard/rollcall-api/internal/router"
	"github.com/classboard/rollcall-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.CallRecord{}, &models.Setting{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	rollCallRepo := repository.NewRollCallRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	recordRepo := repository.NewCallRecordRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	if err := settingsRepo.SeedDefaults(context.Background()); err != nil {
		log.Fatalf("failed to seed settings: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, stats cache disabled")
	}

	broadcaster := realtime.NewBroadcaster(logger)

	rollCallService := service.NewRollCallService(rollCallRepo, studentRepo, validate, broadcaster, logger)
	studentService := service.NewStudentService(studentRepo, recordRepo, validate, logger)
	settingsService := service.NewSettingsService(settingsRepo, validate, logger)
	statsService := service.NewStatsService(statsRepo, redisClient, cfg.StatsCacheTTL, logger)
	authService := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret, cfg.TokenTTL, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		RollCallHandler: handler.NewRollCallHandler(rollCallService, logger),
		StudentHandler:  handler.NewStudentHandler(studentService, logger),
		SettingsHandler: handler.NewSettingsHandler(settingsService, logger),
		StatsHandler:    handler.NewStatsHandler(statsService, logger),
		LiveHandler:     handler.NewLiveHandler(broadcaster, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
