// Package database berisi migrasi dan seed data demo.
package database

import (
	"os"

	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// AutoMigrate menjalankan migrasi skema untuk semua model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatMessage{},
	)
}

// SeedDemoStaff membuat satu akun staff demo kalau belum ada, supaya console
// dapur bisa langsung dipakai setelah boot pertama.
func SeedDemoStaff(db *gorm.DB) {
	email := os.Getenv("DEMO_STAFF_EMAIL")
	password := os.Getenv("DEMO_STAFF_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	user := models.User{Name: "Staff Demo", Email: email, Role: models.RoleStaff}
	if err := user.SetPassword(password); err != nil {
		utils.ErrorLogger.Printf("hash password staff demo: %v", err)
		return
	}
	if err := db.Create(&user).Error; err != nil {
		utils.ErrorLogger.Printf("seed staff demo: %v", err)
		return
	}
	utils.InfoLogger.Printf("staff demo %s dibuat", email)
}
