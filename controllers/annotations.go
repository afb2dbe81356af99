package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"retinascope/auditlog"
	"retinascope/models"
)

type CreateAnnotationInput struct {
	ImageID   string  `json:"imageId" binding:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Type      string  `json:"type"`
	Severity  string  `json:"severity"`
	Color     string  `json:"color"`
	CreatedBy *string `json:"created_by"`
}

// CreateAnnotation Create a bounding box on an image
func CreateAnnotation(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateAnnotationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ann := models.Annotation{
			ImageID:   input.ImageID,
			X:         input.X,
			Y:         input.Y,
			Width:     input.Width,
			Height:    input.Height,
			Type:      input.Type,
			Severity:  input.Severity,
			Color:     input.Color,
			CreatedBy: input.CreatedBy,
			CreatedAt: time.Now().UTC(),
		}
		if err := models.CreateAnnotation(db, &ann); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionCreate, "annotation", itoa(ann.ID), ann.CreatedBy, nil)
		c.JSON(http.StatusOK, ann)
	}
}

// AllAnnotations List every annotation across all images
func AllAnnotations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		anns, err := models.AllAnnotations(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, anns)
	}
}

// AnnotationsForImage List annotations on one image, optionally by author
func AnnotationsForImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		anns, err := models.AnnotationsForImage(db, c.Param("imageId"), c.Query("created_by"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, anns)
	}
}

// DeleteAnnotation Delete one annotation, 404 when it does not exist. Unlike
// user deletion this only writes an audit entry on a real match.
func DeleteAnnotation(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := models.DeleteAnnotation(db, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Annotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionDelete, "annotation", id, nil, nil)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
