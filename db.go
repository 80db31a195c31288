package main

import (
	"log"
	"os"

	"expirytrack/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}

	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.LabelScan{}); err != nil {
			log.Printf("migration warning (label_scans): %v", err)
		}
	}

	ensureDirs()
}

// ensureDirs creates the inventory data and upload base directories.
func ensureDirs() {
	for _, dir := range []string{cfg.DataDir, cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("failed to create dir %s: %v", dir, err)
		}
	}
}
