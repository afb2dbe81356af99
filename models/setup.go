package models

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDataBase Open the configured database and migrate the schema.
// The driver is selected by name so deployments can move from the default
// sqlite file to mysql without code changes.
func ConnectDataBase(driver string, dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch driver {
	case "mysql":
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot connect %s database at %s: %w", driver, dsn, err)
	}
	log.Info(fmt.Sprintf("Connected %s database at %s", driver, dsn))

	if err := db.AutoMigrate(
		&User{},
		&Image{},
		&Annotation{},
		&ClassificationRecord{},
		&LogEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
