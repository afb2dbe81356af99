package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClassificationRecord A point-in-time diagnostic decision. The annotation
// snapshot and the AI prediction are stored as JSON copies, later edits to
// live annotations never touch a saved record. Records are immutable, there
// is no update or delete path.
type ClassificationRecord struct {
	ID           uint           `json:"id" gorm:"primary_key"`
	PatientID    string         `json:"patientId"`
	PatientName  string         `json:"patientName"`
	ImagePath    string         `json:"imagePath"`
	ManualLabel  string         `json:"manual_label"`
	Stage        *int           `json:"stage,omitempty"`
	OtherDisease *string        `json:"other_disease,omitempty"`
	AIPrediction datatypes.JSON `json:"ai_prediction,omitempty"`
	Annotations  datatypes.JSON `json:"annotations"`
	Comparison   string         `json:"comparison"`
	ExportedAt   string         `json:"exported_at"`
	CreatedAt    time.Time      `json:"created_at"`
}

// SaveClassification Append a classification record. The embedded snapshot is
// taken as-is, no validation against live annotations.
func SaveClassification(db *gorm.DB, rec *ClassificationRecord) error {
	return db.Create(rec).Error
}

// ListClassifications List saved records, capped at 100.
func ListClassifications(db *gorm.DB) ([]ClassificationRecord, error) {
	var recs []ClassificationRecord
	if err := db.Limit(100).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
