package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clubstack/backoffice/models"
)

// SetupSQLiteTestDB creates an in-memory database with the full schema
// for service tests.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Product{},
		&models.Transaction{},
		&models.Member{},
		&models.MemberTransaction{},
		&models.MemberConflict{},
		&models.SyncWatermark{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
