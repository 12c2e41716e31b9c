package main

import (
	"log"
	"os"

	"peer-review-api/config"
	"peer-review-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Migrates the schema and optionally bootstraps an instructor account
// from BOOTSTRAP_INSTRUCTOR_EMAIL / BOOTSTRAP_INSTRUCTOR_PASSWORD.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.UserToken{},
		&models.Project{},
		&models.Team{},
		&models.Student{},
		&models.PeerReview{},
		&models.Grade{},
		&models.TeamGrade{},
		&models.FileUpload{},
	); err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Println("Schema migrated")

	email := os.Getenv("BOOTSTRAP_INSTRUCTOR_EMAIL")
	password := os.Getenv("BOOTSTRAP_INSTRUCTOR_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Instructor %s already exists, skipping bootstrap", email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash bootstrap password:", err)
	}

	user := models.User{
		Name:     "Instructor",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleInstructor,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create instructor:", err)
	}
	log.Printf("Bootstrapped instructor account %s", email)
}
