package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"retinascope/auditlog"
	"retinascope/models"
	"retinascope/storage"
)

// UploadImage Accept a multipart image upload, persist the binary to the
// blob store and the metadata to the database.
func UploadImage(db *gorm.DB, audit auditlog.Sink, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		patientID := c.PostForm("patientId")
		patientName := c.PostForm("patientName")
		uploadedBy := c.PostForm("uploadedBy")

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File must be an image"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		// Name-addressed: a duplicate filename overwrites the previous blob.
		url, err := blobs.Save(fileHeader.Filename, file, fileHeader.Size, contentType)
		if err != nil {
			log.Error("blob save failed: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		image := models.Image{
			PatientID:   patientID,
			PatientName: patientName,
			Filename:    fileHeader.Filename,
			URL:         url,
			UploadedAt:  time.Now().UTC(),
		}
		if uploadedBy != "" {
			image.UploadedBy = &uploadedBy
		}
		if err := models.CreateImage(db, &image); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionUpload, "image", itoa(image.ID), nil, nil)
		c.JSON(http.StatusOK, image)
	}
}

// ListImages List uploaded images, optionally by uploader
func ListImages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		images, err := models.ListImages(db, c.Query("uploaded_by"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, images)
	}
}

// DeleteImage Delete an image and cascade to its annotations. Both counts go
// back to the caller so cascade completeness is verifiable.
func DeleteImage(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		deletedImages, deletedAnnotations, err := models.DeleteImageCascade(db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionDelete, "image", id, nil, nil)
		c.JSON(http.StatusOK, gin.H{
			"deleted_images":      deletedImages,
			"deleted_annotations": deletedAnnotations,
		})
	}
}
