package models

import (
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testDB Create an in-memory sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Image{}, &Annotation{}, &ClassificationRecord{}, &LogEntry{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
