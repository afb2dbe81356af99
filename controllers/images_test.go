package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retinascope/auditlog"
	"retinascope/models"
)

func TestUploadImageEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "image", "fundus.png", "image/png",
		[]byte("fake image bytes"), map[string]string{
			"patientId": "P-001", "patientName": "Jane Doe", "uploadedBy": "alice",
		})
	w := env.do(t, http.MethodPost, "/api/images", body, contentType)
	require.Equal(t, http.StatusOK, w.Code)

	var uploaded models.Image
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.Equal(t, "fundus.png", uploaded.Filename)
	assert.Equal(t, "/uploads/fundus.png", uploaded.URL)
	require.NotNil(t, uploaded.UploadedBy)
	assert.Equal(t, "alice", *uploaded.UploadedBy)

	// The image appears in the listing exactly once.
	images, err := models.ListImages(env.db, "")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, uploaded.ID, images[0].ID)

	entry := env.lastLog(t)
	assert.Equal(t, auditlog.ActionUpload, entry.Action)
	assert.Equal(t, "image", entry.Entity)
	assert.Equal(t, fmt.Sprintf("%d", uploaded.ID), entry.EntityID)
	assert.Equal(t, 1, env.logCount(t))
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "image", "report.txt", "text/plain",
		[]byte("hello"), map[string]string{"patientId": "P-001"})
	w := env.do(t, http.MethodPost, "/api/images", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be an image")

	images, err := models.ListImages(env.db, "")
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, 0, env.logCount(t))
}

func TestDeleteImageEndpointCascades(t *testing.T) {
	env := newTestEnv(t)

	image := models.Image{Filename: "fundus.png"}
	require.NoError(t, models.CreateImage(env.db, &image))
	imageID := fmt.Sprintf("%d", image.ID)
	for i := 0; i < 2; i++ {
		require.NoError(t, models.CreateAnnotation(env.db, &models.Annotation{ImageID: imageID}))
	}

	w := env.do(t, http.MethodDelete, "/api/images/"+imageID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted_images":1`)
	assert.Contains(t, w.Body.String(), `"deleted_annotations":2`)

	anns, err := models.AnnotationsForImage(env.db, imageID, "")
	require.NoError(t, err)
	assert.Empty(t, anns)

	entry := env.lastLog(t)
	assert.Equal(t, auditlog.ActionDelete, entry.Action)
	assert.Equal(t, imageID, entry.EntityID)
}

func TestDeleteImageEndpointMissing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodDelete, "/api/images/31337", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted_images":0`)
	assert.Contains(t, w.Body.String(), `"deleted_annotations":0`)
}
