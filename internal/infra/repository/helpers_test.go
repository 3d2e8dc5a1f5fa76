package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/mood-journal/internal/db"
	"github.com/BruksfildServices01/mood-journal/internal/models"
	"github.com/BruksfildServices01/mood-journal/internal/timezone"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDBWithClock(t, timezone.Clock())
}

func setupTestDBWithClock(t *testing.T, now func() time.Time) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dbpkg.SQLiteDSN(":memory:")), &gorm.Config{
		TranslateError: true,
		NowFunc:        now,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func newLog(mood int) *models.Log {
	return &models.Log{Mood: mood, SleepHours: 7.5, Music: "lofi", Social: 1}
}
