package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Image struct {
	ID          uint      `json:"id" gorm:"primary_key"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploadedAt"`
	UploadedBy  *string   `json:"uploadedBy,omitempty"`
}

// CreateImage Persist an uploaded image record.
func CreateImage(db *gorm.DB, image *Image) error {
	return db.Create(image).Error
}

// FindImage Look up a single image by id.
func FindImage(db *gorm.DB, id string) (Image, error) {
	var image Image
	if err := db.Where("id = ?", id).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Image{}, ErrNotFound
		}
		return Image{}, err
	}
	return image, nil
}

// ListImages List images, optionally filtered by uploader, capped at 100.
func ListImages(db *gorm.DB, uploadedBy string) ([]Image, error) {
	q := db.Limit(100)
	if uploadedBy != "" {
		q = q.Where("uploaded_by = ?", uploadedBy)
	}
	var images []Image
	if err := q.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImageCascade Delete an image and every annotation referencing it.
// The image goes first: a crash between the two deletes can only leave
// orphaned annotations behind, and a repeated delete cleans those up. The
// other order would drop annotations while the image stays visible, which
// nothing can repair. A missing id is not an error, both counts are zero.
func DeleteImageCascade(db *gorm.DB, id string) (deletedImages, deletedAnnotations int64, err error) {
	imgRes := db.Where("id = ?", id).Delete(&Image{})
	if imgRes.Error != nil {
		return 0, 0, imgRes.Error
	}
	annRes := db.Where("image_id = ?", id).Delete(&Annotation{})
	if annRes.Error != nil {
		return imgRes.RowsAffected, 0, annRes.Error
	}
	return imgRes.RowsAffected, annRes.RowsAffected, nil
}
