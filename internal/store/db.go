// internal/store/db.go
package store

import (
	"fmt"
	"log"

	"church-community-service/internal/config"
	"church-community-service/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func InitDB(cfg *config.Config) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBSSLMode, cfg.Timezone,
	)

	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}

	// Auto-migrate (safe in dev; use migrations in prod)
	err = db.AutoMigrate(
		&models.Member{},
		&models.Event{},
		&models.Devotional{},
		&models.WhatsAppMessage{},
		&models.JobRunLog{},
	)
	if err != nil {
		log.Fatalf("❌ Failed to migrate: %v", err)
	}

	log.Println("✅ Community DB connected & migrated")
}

func GetDB() *gorm.DB {
	return db
}
