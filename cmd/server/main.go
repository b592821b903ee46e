package main

import (
	"log"
	"log/slog"
	"time"

	"school-payments-backend/internal/config"
	"school-payments-backend/internal/models"
	"school-payments-backend/internal/routes"
	"school-payments-backend/pkg/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	logging.Setup()

	cfg := config.Load()
	db := config.InitDB()

	if err := db.AutoMigrate(
		&models.Guardian{},
		&models.Payment{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r, db, cfg); err != nil {
		log.Fatalf("failed to register routes: %v", err)
	}

	slog.Info("server listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
