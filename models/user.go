package models

import "gorm.io/gorm"

const (
	RoleTenant  = "tenant"
	RoleManager = "manager"
)

type User struct {
	gorm.Model
	Login        string `json:"login" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Role         string `json:"role" gorm:"not null;default:'tenant'"`
}
