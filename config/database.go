package config

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Database *gorm.DB

func Connect() error {
	var err error
	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	} else {
		// Local development falls back to a sqlite file
		log.Println("Connect: DB_URL not set, using local sqlite database")
		Database, err = gorm.Open(sqlite.Open("deckforge.db"), &gorm.Config{})
	}
	if err != nil {
		panic("failed to connect database")
	}

	return nil
}
