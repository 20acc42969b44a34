package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking statuses. A booking moves confirmed -> checked_in ->
// completed, or to cancelled from either non-terminal state.
// StatusCheckedOut is a deprecated alias for completed: accepted on
// read and ranked during group aggregation, but no write path
// produces it anymore.
const (
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

const (
	MethodCash         = "cash"
	MethodCreditCard   = "credit_card"
	MethodBankTransfer = "bank_transfer"
)

// BaseCurrency is the canonical storage currency for all prices.
const BaseCurrency = "USD"

// Booking is one physical room reservation for a date range. Bookings
// created together share a BookingGroupID; rows predating grouping
// have a nil group id and get a virtual one at read time.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingGroupID *string `gorm:"column:booking_group_id;size:64;index" json:"booking_group_id,omitempty"`
	UserID         uint    `gorm:"index" json:"user_id"`
	RoomTypeID     uint    `gorm:"column:room_type_id;index" json:"room_type_id"`

	// RoomID stays nil until the booking is checked in.
	RoomID *uint `gorm:"column:room_id;index" json:"room_id,omitempty"`

	CheckInDate  datatypes.Date `gorm:"column:check_in_date" json:"check_in_date"`
	CheckOutDate datatypes.Date `gorm:"column:check_out_date" json:"check_out_date"`
	Guests       int            `json:"guests"`

	Status string `gorm:"size:32;default:confirmed" json:"status"`

	// TotalPrice = nights x room type price at creation, immutable.
	// The currency fields below are presentation-only derivations.
	TotalPrice      float64  `gorm:"column:total_price;<-:create" json:"total_price"`
	Currency        string   `gorm:"size:8;default:USD" json:"currency"`
	ExchangeRate    *float64 `gorm:"column:exchange_rate" json:"exchange_rate,omitempty"`
	TotalPriceLocal *float64 `gorm:"column:total_price_local" json:"total_price_local,omitempty"`

	PaymentStatus string `gorm:"column:payment_status;size:32;default:unpaid" json:"payment_status"`
	PaymentMethod string `gorm:"column:payment_method;size:32" json:"payment_method"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	Room     *Room    `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// NormalizeStatus folds the deprecated checked_out alias into the
// canonical terminal state.
func NormalizeStatus(status string) string {
	if status == StatusCheckedOut {
		return StatusCompleted
	}
	return status
}

// IsTerminal reports whether no further transition is allowed.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentUnpaid, PaymentPending, PaymentPaid:
		return true
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case MethodCash, MethodCreditCard, MethodBankTransfer:
		return true
	}
	return false
}
