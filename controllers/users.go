package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"retinascope/auditlog"
	"retinascope/models"
)

type CreateUserInput struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// CreateUser Register a new user
func CreateUser(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := models.CreateUser(db, input.Email, input.Name, input.Password, input.Role)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionCreate, "user", itoa(user.ID), &user.Email, nil)
		c.JSON(http.StatusOK, user)
	}
}

// Login Verify credentials. Stateless: no session or token is issued, the
// caller treats the returned identity as authenticated only for this check.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("username")
		password := c.PostForm("password")

		user, err := models.VerifyLogin(db, email, password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ListUsers List registered users
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := models.ListUsers(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// DeleteUser Delete a user. The audit entry is written whether or not a
// record matched, the response body tells the caller the truth.
func DeleteUser(db *gorm.DB, audit auditlog.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		matched, err := models.DeleteUser(db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Append(auditlog.ActionDelete, "user", id, nil, nil)
		c.JSON(http.StatusOK, gin.H{"deleted": matched})
	}
}
