package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"retinascope/auditlog"
	"retinascope/export"
	"retinascope/models"
	"retinascope/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAnnotationsPDF Render the annotation report for one image, 404 when
// the image does not exist.
func ExportAnnotationsPDF(db *gorm.DB, audit auditlog.Sink, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("imageId")
		image, err := models.FindImage(db, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		anns, err := models.AnnotationsForImage(db, id, "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Missing or unreadable blob: the report is rendered without the picture.
		blob, err := blobs.Open(image.Filename)
		if err != nil {
			log.Warn("report image unavailable: ", err)
			blob = nil
		} else {
			defer blob.Close()
		}

		pdfBytes, err := export.AnnotationReport(image, anns, blob)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionExport, "pdf", id, nil, nil)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=annotation_report_%s.pdf", id))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

// ExportLogsExcel Render the newest 1000 audit entries as a spreadsheet.
func ExportLogsExcel(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := models.RecentLogs(db, 1000)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		xlsxBytes, err := export.LogsWorkbook(entries)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionExport, "excel", "logs", nil, nil)
		c.Header("Content-Disposition", "attachment; filename=logs.xlsx")
		c.Data(http.StatusOK, xlsxContentType, xlsxBytes)
	}
}
