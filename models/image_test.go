package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateImageAppearsOnce(t *testing.T) {
	db := testDB(t)

	image := Image{
		PatientID:   "P-001",
		PatientName: "Jane Doe",
		Filename:    "fundus.jpg",
		URL:         "/uploads/fundus.jpg",
		UploadedAt:  time.Now().UTC(),
	}
	require.NoError(t, CreateImage(db, &image))

	images, err := ListImages(db, "")
	require.NoError(t, err)

	count := 0
	for _, img := range images {
		if img.ID == image.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestListImagesUploaderFilter(t *testing.T) {
	db := testDB(t)

	require.NoError(t, CreateImage(db, &Image{Filename: "a.jpg", UploadedBy: strPtr("alice")}))
	require.NoError(t, CreateImage(db, &Image{Filename: "b.jpg", UploadedBy: strPtr("bob")}))
	require.NoError(t, CreateImage(db, &Image{Filename: "c.jpg"}))

	images, err := ListImages(db, "alice")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "a.jpg", images[0].Filename)

	images, err = ListImages(db, "")
	require.NoError(t, err)
	assert.Len(t, images, 3)
}

func TestDeleteImageCascade(t *testing.T) {
	db := testDB(t)

	image := Image{Filename: "fundus.jpg"}
	require.NoError(t, CreateImage(db, &image))
	imageID := itoa(image.ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, CreateAnnotation(db, &Annotation{ImageID: imageID, Type: "lesion"}))
	}
	// An annotation on another image survives the cascade.
	require.NoError(t, CreateAnnotation(db, &Annotation{ImageID: "unrelated", Type: "lesion"}))

	deletedImages, deletedAnnotations, err := DeleteImageCascade(db, imageID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deletedImages)
	assert.Equal(t, int64(3), deletedAnnotations)

	anns, err := AnnotationsForImage(db, imageID, "")
	require.NoError(t, err)
	assert.Empty(t, anns)

	remaining, err := AllAnnotations(db)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestDeleteImageCascadeMissingID(t *testing.T) {
	db := testDB(t)

	deletedImages, deletedAnnotations, err := DeleteImageCascade(db, "12345")
	require.NoError(t, err)
	assert.Zero(t, deletedImages)
	assert.Zero(t, deletedAnnotations)
}

func TestListImagesCap(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 120; i++ {
		require.NoError(t, CreateImage(db, &Image{Filename: fmt.Sprintf("img%d.jpg", i)}))
	}

	images, err := ListImages(db, "")
	require.NoError(t, err)
	assert.Len(t, images, 100)
}
