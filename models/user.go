package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID             uint      `json:"id" gorm:"primary_key"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"-"`
}

// CreateUser Register a new user with a bcrypt-hashed password.
// The plaintext password is never persisted.
func CreateUser(db *gorm.DB, email, name, password, role string) (User, error) {
	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return User{}, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{Email: email, Name: name, Role: role, HashedPassword: string(hashed)}
	if err := db.Create(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// VerifyLogin Check credentials and return the matching user. This is a
// stateless check, no session or token is issued.
func VerifyLogin(db *gorm.DB, email, password string) (User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ListUsers List registered users, capped at 100.
func ListUsers(db *gorm.DB) ([]User, error) {
	var users []User
	if err := db.Limit(100).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser Delete a user by id. Returns whether a record matched; callers
// decide what to do when nothing did.
func DeleteUser(db *gorm.DB, id string) (bool, error) {
	res := db.Where("id = ?", id).Delete(&User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
