package infra

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"tripmap/internal/config"
	"tripmap/internal/models/db_models"
)

// InitPostgresql opens the interaction log database. It returns a nil *gorm.DB
// when POSTGRES_URL is not set; the log is optional.
func InitPostgresql(cfg *config.Config) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		log.Println("POSTGRES_URL not set, chat interactions will not be recorded")
		return nil, nil
	}

	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		return nil, err
	}

	if err := connectionPool.AutoMigrate(&db_models.ChatInteraction{}); err != nil {
		log.Printf("Error migrating database: %v", err)
		return nil, err
	}

	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}
