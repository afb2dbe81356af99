package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"retinascope/auditlog"
	"retinascope/models"
)

type SaveClassificationInput struct {
	PatientID    string         `json:"patientId" binding:"required"`
	PatientName  string         `json:"patientName"`
	ImagePath    string         `json:"imagePath"`
	ManualLabel  string         `json:"manual_label"`
	Stage        *int           `json:"stage"`
	OtherDisease *string        `json:"other_disease"`
	AIPrediction datatypes.JSON `json:"ai_prediction"`
	Annotations  datatypes.JSON `json:"annotations"`
	Comparison   string         `json:"comparison"`
	ExportedAt   string         `json:"exported_at"`
}

// SaveClassification Append a diagnostic snapshot. The annotation copy is
// stored as given, detached from the live annotation records.
func SaveClassification(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SaveClassificationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec := models.ClassificationRecord{
			PatientID:    input.PatientID,
			PatientName:  input.PatientName,
			ImagePath:    input.ImagePath,
			ManualLabel:  input.ManualLabel,
			Stage:        input.Stage,
			OtherDisease: input.OtherDisease,
			AIPrediction: input.AIPrediction,
			Annotations:  input.Annotations,
			Comparison:   input.Comparison,
			ExportedAt:   input.ExportedAt,
			CreatedAt:    time.Now().UTC(),
		}
		if err := models.SaveClassification(db, &rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionExport, "classification", itoa(rec.ID), nil, nil)
		c.JSON(http.StatusOK, rec)
	}
}

// ListClassifications List saved diagnostic snapshots
func ListClassifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := models.ListClassifications(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}
