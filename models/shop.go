package models

import "time"

// Shop is the restaurant record owned by exactly one admin user.
type Shop struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	User    User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name    string `json:"name" gorm:"not null"`
	Image   string `json:"image"`
	City    string `json:"city"`
	State   string `json:"state"`
	Address string `json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
