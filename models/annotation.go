package models

import (
	"time"

	"gorm.io/gorm"
)

// Annotation A single bounding box drawn on an image. Coordinates are in
// image pixel space, unvalidated against the image bounds.
type Annotation struct {
	ID        uint      `json:"id" gorm:"primary_key"`
	ImageID   string    `json:"imageId" gorm:"index"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Color     string    `json:"color"`
	CreatedBy *string   `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAnnotation Persist a new annotation. The referenced image is not
// checked for existence, the public API only hands out ids of live images.
func CreateAnnotation(db *gorm.DB, ann *Annotation) error {
	return db.Create(ann).Error
}

// AnnotationsForImage List annotations on one image, optionally filtered by
// author, capped at 100.
func AnnotationsForImage(db *gorm.DB, imageID, createdBy string) ([]Annotation, error) {
	q := db.Where("image_id = ?", imageID).Limit(100)
	if createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}
	var anns []Annotation
	if err := q.Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}

// AllAnnotations List every annotation in the store, capped at 10000. The cap
// is two orders above the per-image one because the dashboard aggregates
// across all images in one call.
func AllAnnotations(db *gorm.DB) ([]Annotation, error) {
	var anns []Annotation
	if err := db.Limit(10000).Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}

// DeleteAnnotation Delete one annotation by id, ErrNotFound when no record
// matched.
func DeleteAnnotation(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&Annotation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
