package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType is a priced category of room ("Suite", "Double Room", ...).
// Price is per night, in USD.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:255;uniqueIndex" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `json:"price"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rooms []Room `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
}
