package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/config"
	"github.com/yeremiapane/teamtask-app/middlewares"
	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/realtime"
	"github.com/yeremiapane/teamtask-app/router"
	"github.com/yeremiapane/teamtask-app/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	// Initialize logger
	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	// Set output to stdout
	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	// Set formatters
	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Setup rate limiter (50 requests per second per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Hub untuk push realtime per user
	hub := realtime.NewHub()

	// Setup router
	r := router.SetupRouter(db, hub)
	r.Use(rateLimiter.RateLimit())

	// Set trusted proxies
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
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
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
		&models.Message{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	// GroupNode dipakai dua tabel: groups (personal) dan team_groups (per team)
	if err := db.Table("groups").AutoMigrate(&models.GroupNode{}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate groups: %v", err)
	}
	if err := db.Table("team_groups").AutoMigrate(&models.GroupNode{}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate team_groups: %v", err)
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
}
