package models

import (
	"time"

	"gorm.io/gorm"
)

// Room is a physical room. IsAvailable is the sole inventory signal:
// it flips to false at check-in and back to true at check-out or
// cancellation. There is no date-ranged calendar.
type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:255" json:"name"`
	RoomTypeID  uint   `gorm:"column:room_type_id;index" json:"room_type_id"`
	Description string `gorm:"type:text" json:"description"`
	IsAvailable bool   `gorm:"column:is_available;default:true" json:"is_available"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomType RoomType  `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	Bookings []Booking `gorm:"foreignKey:RoomID" json:"-"`
}
