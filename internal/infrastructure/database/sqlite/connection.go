package sqlite

import (
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens the GORM database connection using SQLite and migrates the
// schema. The returned handle is long-lived and shared by both pollers; it is
// opened once in main and passed to each repository explicitly.
func NewDB(databasePath string, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to connect to database %s: %w", databasePath, err)
	}
	log.Info(fmt.Sprintf("Successfully connected to database: %s", databasePath))

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("Database schema migration completed.")
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Person{},
		&entity.Reminder{},
		&entity.Mention{},
		&entity.Media{},
		&entity.Span{},
		&entity.SeenNotification{},
	)
	if err != nil {
		return fmt.Errorf("🔴 ERROR: schema migration failed: %w", err)
	}
	return nil
}

// CloseDB closes the underlying database connection.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}
