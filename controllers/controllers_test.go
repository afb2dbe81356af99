package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"retinascope/auditlog"
	"retinascope/controllers"
	"retinascope/inference"
	"retinascope/models"
	"retinascope/storage"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv Wire the full route table against an in-memory database, a
// temp-dir blob store and an uninitialized classifier (every prediction
// degrades to the sentinel, which is what the handler tests need).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Image{}, &models.Annotation{},
		&models.ClassificationRecord{}, &models.LogEntry{},
	))

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	audit := auditlog.NewRecorder(db)
	clf := &inference.Classifier{}

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/users", controllers.CreateUser(db, audit))
		api.POST("/login", controllers.Login(db))
		api.GET("/users", controllers.ListUsers(db))
		api.DELETE("/users/:id", controllers.DeleteUser(db, audit))

		api.POST("/images", controllers.UploadImage(db, audit, blobs))
		api.GET("/images", controllers.ListImages(db))
		api.DELETE("/images/:id", controllers.DeleteImage(db, audit))

		api.GET("/annotations", controllers.AllAnnotations(db))
		api.GET("/annotations/:imageId", controllers.AnnotationsForImage(db))
		api.POST("/annotations", controllers.CreateAnnotation(db, audit))
		api.DELETE("/annotations/:id", controllers.DeleteAnnotation(db, audit))

		api.POST("/predict", controllers.Predict(clf))

		api.POST("/classifications", controllers.SaveClassification(db, audit))
		api.GET("/classifications", controllers.ListClassifications(db))

		api.GET("/logs", controllers.ListLogs(db))

		api.GET("/export/pdf/:imageId", controllers.ExportAnnotationsPDF(db, audit, blobs))
		api.GET("/export/excel", controllers.ExportLogsExcel(db, audit))
	}

	return &testEnv{db: db, router: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, method, path, bytes.NewBuffer(body), "application/json")
}

func (e *testEnv) logCount(t *testing.T) int {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.LogEntry{}).Count(&n).Error)
	return int(n)
}

func (e *testEnv) lastLog(t *testing.T) models.LogEntry {
	t.Helper()
	entries, err := models.RecentLogs(e.db, 1)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	return entries[0]
}

// multipartBody Build a multipart body with one file part carrying an
// explicit content type, plus extra form fields.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func formBody(values url.Values) *bytes.Buffer {
	return bytes.NewBufferString(values.Encode())
}
