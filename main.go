package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/config"
	"github.com/tollnotify/tollnotify-app/middlewares"
	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/realtime"
	"github.com/tollnotify/tollnotify-app/router"
	"github.com/tollnotify/tollnotify-app/services"
	"github.com/tollnotify/tollnotify-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	sms, err := services.NewTwilioSenderFromEnv()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to configure SMS gateway: %v", err)
	}

	hub := realtime.NewHub()
	notifier := services.NewNotificationService(db, hub, sms)

	// Sweep notifikasi yang sudah lewat masa retensi
	retention := services.NewRetentionMonitor(db)
	retention.Start()
	defer retention.Stop()

	utils.StartBlacklistCleanup()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, hub, notifier, sms)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.TollPlaza{},
		&models.NotificationLog{},
		&models.OtpVerification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
