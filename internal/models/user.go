package models

import "gorm.io/gorm"

// Role names understood by the admin middleware.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User is an account allowed to sign in to the admin API.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'viewer';index"`
}
