package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"loantrack/internal/config"
	"loantrack/internal/loan"
	"loantrack/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}, &loan.Loan{}, &loan.Photo{}); err != nil {
		return err
	}

	DB = db
	log.Printf("[DB] Database connected and migrated")
	return nil
}
