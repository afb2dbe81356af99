package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogEntry One audit record. Entries are append-only, never updated or
// deleted.
type LogEntry struct {
	ID        uint              `json:"id" gorm:"primary_key"`
	Action    string            `json:"action"`
	Entity    string            `json:"entity"`
	EntityID  string            `json:"entity_id"`
	User      *string           `json:"user,omitempty"`
	Details   datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// RecentLogs List audit entries newest first, at most limit of them.
func RecentLogs(db *gorm.DB, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	if err := db.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
