package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	uuid "github.com/twinj/uuid"

	"retinascope/auditlog"
	"retinascope/controllers"
	"retinascope/inference"
	"retinascope/models"
	"retinascope/storage"
	"retinascope/utils"
)

// corsMiddleware CORS for * origins. The frontend is served from another
// origin and the /uploads prefix must be fetchable from the annotation
// canvas, so everything stays open.
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// requestIDMiddleware Generate a UUID and attach it to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_uuid := uuid.NewV4()
		c.Writer.Header().Set("X-Request-Id", _uuid.String())
		c.Next()
	}
}

func newBlobStore(config *utils.Config) (storage.BlobStore, error) {
	switch config.Storage.Backend {
	case "minio":
		m := config.Storage.Minio
		return storage.NewMinioStore(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.PublicBase, m.UseSSL)
	case "local", "":
		return storage.NewLocalStore(config.Storage.UploadsDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}

func main() {
	log.Info("Starting RetinaScope...")

	// Generate our config based on the config supplied
	// by the user in the flags
	configPath, debugMode, err := utils.ParseFlags()
	if err != nil {
		log.Fatal(err)
	}
	config, err := utils.NewConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Debug mode enables gin-gonic debug mode
	if debugMode == false {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db, err := models.ConnectDataBase(config.Database.Driver, config.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}
	audit := auditlog.NewRecorder(db)

	// Blob storage for the uploaded retinal images
	blobs, err := newBlobStore(config)
	if err != nil {
		log.Fatal(err)
	}

	// The classifier is loaded once and shared read-only across requests
	classifier, err := inference.New(config.Model.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer classifier.Close()

	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Version tag to test against
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "v0.1.0",
		})
	})

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

		api.POST("/predict", controllers.Predict(classifier))

		api.POST("/classifications", controllers.SaveClassification(db, audit))
		api.GET("/classifications", controllers.ListClassifications(db))

		api.GET("/logs", controllers.ListLogs(db))

		api.GET("/export/pdf/:imageId", controllers.ExportAnnotationsPDF(db, audit, blobs))
		api.GET("/export/excel", controllers.ExportLogsExcel(db, audit))
	}

	// With the local backend the uploaded blobs are served straight from
	// disk; the minio backend exposes its own public prefix.
	if local, ok := blobs.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir)
	}

	addr := fmt.Sprintf(":%s", config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Info("Server exiting")
}
