package database

import (
	"fmt"
	"log"

	config "github.com/quizsecure/quizsecure/configs"
	"github.com/quizsecure/quizsecure/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		// Surface uniqueness violations as gorm.ErrDuplicatedKey so
		// handlers can map them to DuplicateEmail / DuplicatePaperCode /
		// AlreadySubmitted responses.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.Submission{},
		&models.Answer{},
		&models.RedFlag{},
		&models.RedeemedCode{},
		&models.QuizResult{},
		&models.Certificate{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}
