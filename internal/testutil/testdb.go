package testutil

import (
	"fieldops-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TaskAudit{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUser inserts a user with a bcrypt-hashed password and returns it.
func SeedUser(db *gorm.DB, username, password string, role models.UserRole) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	return user, db.Create(&user).Error
}

// SeedProject inserts a project with the given number and returns it.
func SeedProject(db *gorm.DB, projectNumber string) (models.Project, error) {
	project := models.Project{
		ID:            uuid.NewString(),
		ProjectNumber: projectNumber,
		ClientName:    "Test Client",
	}
	return project, db.Create(&project).Error
}
