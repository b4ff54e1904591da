package main

import (
	"log"
	"strings"

	"myshop/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB(cfg Config) {
	var err error
	if cfg.DatabaseDSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	migrateDB(db)
}

// migrateDB runs schema migrations unless DB_AUTO_MIGRATE disables them.
// Models are migrated individually so a failure on one doesn't block others.
func migrateDB(db *gorm.DB) {
	shouldMigrate := true
	if v := envOr("DB_AUTO_MIGRATE", "true"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if !shouldMigrate {
		return
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		log.Printf("migration warning (refresh_tokens): %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		log.Printf("migration warning (orders): %v", err)
	}
	if err := db.AutoMigrate(&models.OrderItem{}); err != nil {
		log.Printf("migration warning (order_items): %v", err)
	}
}

// isUniqueConstraintError reports whether err came from a unique index violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
