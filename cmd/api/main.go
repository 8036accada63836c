package main

import (
	"fmt"
	"log"
	"time"

	"taskflow-backend/configs"
	v1 "taskflow-backend/internal/api/v1"
	"taskflow-backend/internal/middleware"
	"taskflow-backend/internal/repository"
	"taskflow-backend/pkg/database"
	"taskflow-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()

	// Inisialisasi store dengan lifecycle eksplisit
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := repository.NewStore(db)
	defer store.Close()
	logger.SystemLogger.Info("Database Connected")

	// Buat tabel jika belum ada
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Inisialisasi Redis
	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer redisClient.Close()

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "TaskFlow API"})
	})

	// Daftarkan route API
	v1.RegisterRoutes(app, store, redisClient, []byte(cfg.JWTSecret))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
