package database

import (
	"log"
	"os"

	"fieldops-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB initializes the database connection and runs migrations
func InitDB() {
	var err error

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "fieldops.db"
	}

	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	err = DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TaskAudit{},
	)

	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedAdmin()

	log.Println("Database connected and migrated successfully!!!")
}

// seedAdmin creates a bootstrap admin account on an empty users table so the
// first login is possible without manual DB surgery.
func seedAdmin() {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "change-me-on-first-login"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash bootstrap admin password: ", err)
	}

	admin := models.User{
		ID:       uuid.NewString(),
		Username: "admin",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to seed bootstrap admin: ", err)
	}
	log.Println("Seeded bootstrap admin user")
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
