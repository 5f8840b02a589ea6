package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleUser     UserRole = "user"     // customer
	RoleAdmin    UserRole = "admin"    // restaurant owner
	RoleDelivery UserRole = "delivery" // courier
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleDelivery:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;default:'user'"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`

	// Password-reset OTP, valid until ResetOTPExpires
	ResetOTP        string     `json:"-"`
	ResetOTPExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
