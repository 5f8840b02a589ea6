package models

import "time"

type Food struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OwnerID uint `json:"owner_id" gorm:"not null;index"`
	Owner   User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	// Restaurant is the owning shop's display name, snapshotted at create
	// time so menu listings don't need a join.
	Restaurant  string    `json:"restaurant"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	IsVeg       bool      `json:"is_veg" gorm:"default:true"`
	Rating      float64   `json:"rating" gorm:"default:4.5"`
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
