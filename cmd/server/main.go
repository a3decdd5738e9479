package main

import (
	"time"

	"pan-basket-backend/internal/config"
	"pan-basket-backend/internal/models"
	"pan-basket-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on system env")
	}

	// Money fields marshal as JSON numbers, matching the API the
	// dashboard frontend already consumes.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	db := config.InitDB(cfg)

	if err := db.AutoMigrate(
		&models.Wholesaler{},
		&models.PanShop{},
		&models.BasketEntry{},
		&models.Payment{},
		&models.User{},
		&models.PasswordReset{},
		&models.ImportBatch{},
	); err != nil {
		logrus.WithError(err).Fatal("auto-migrate failed")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg)

	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
