package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"retinascope/inference"
)

// Predictor The classifier boundary the HTTP layer depends on. Predict
// never fails, a bad input yields the sentinel result.
type Predictor interface {
	Predict(data []byte) inference.Prediction
}

// Predict Run the retinal stage classifier over an uploaded file. Always
// responds 200 once the upload itself is readable.
func Predict(clf Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, clf.Predict(data))
	}
}
