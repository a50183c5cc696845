// Migration script to hash existing passwords
// cmd/migrate-passwords/main.go
package main

import (
	"log"
	"strings"

	"report-workflow-api/config"
	"report-workflow-api/models"
	"report-workflow-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	// Get all staff users
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		log.Fatal("Failed to fetch users:", err)
	}

	for _, user := range users {
		migratePassword(user.Email, user.Password, func(hashed string) error {
			return config.DB.Model(&user).Update("password", hashed).Error
		})
	}

	// Portal users hold their own credential table
	var portalUsers []models.PortalUser
	if err := config.DB.Find(&portalUsers).Error; err != nil {
		log.Fatal("Failed to fetch portal users:", err)
	}

	for _, portalUser := range portalUsers {
		migratePassword(portalUser.Email, portalUser.Password, func(hashed string) error {
			return config.DB.Model(&portalUser).Update("password", hashed).Error
		})
	}

	log.Println("Password migration completed!")
}

func migratePassword(email, password string, update func(string) error) {
	// Skip if already hashed (bcrypt hashes start with $2)
	if strings.HasPrefix(password, "$2") {
		log.Printf("User %s already has hashed password, skipping\n", email)
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash password for user %s: %v\n", email, err)
		return
	}

	if err := update(hashed); err != nil {
		log.Printf("Failed to update password for user %s: %v\n", email, err)
		return
	}

	log.Printf("Successfully updated password for user %s\n", email)
}
