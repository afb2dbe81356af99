// Package auditlog records every mutating action in an append-only log.
// Writes are fire-and-forget: a failed audit insert is logged and discarded,
// it never fails the API call that triggered it.
package auditlog

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"retinascope/models"
)

// Audit actions written by the controllers.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionUpload = "upload"
	ActionExport = "export"
)

// Sink Receives audit events. Implementations must swallow their own
// failures.
type Sink interface {
	Append(action, entity, entityID string, user *string, details map[string]interface{})
}

// Recorder Gorm-backed Sink writing to the logs table.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Append Insert one log entry. Pure insert, no read-modify-write.
func (r *Recorder) Append(action, entity, entityID string, user *string, details map[string]interface{}) {
	entry := models.LogEntry{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		User:     user,
		Details:  details,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		log.Warn("audit log write failed: ", err)
	}
}
