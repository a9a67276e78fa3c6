package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/IzzulGod/dynamenu-ai/config"
	"github.com/IzzulGod/dynamenu-ai/database"
	"github.com/IzzulGod/dynamenu-ai/middlewares"
	"github.com/IzzulGod/dynamenu-ai/router"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env tidak ditemukan: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Gagal konek database: %v", err)
	}
	utils.InitDB(db)

	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Gagal AutoMigrate: %v", err)
	}
	database.SeedDemoStaff(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(db)

	// Pembatas global per IP (50 request/detik)
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
