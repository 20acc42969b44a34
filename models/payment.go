package models

import "time"

// Payment is an append-only audit record of money received. It is
// tied to either a single booking (check-in with payment) or a whole
// booking group (group payment); never mutated after creation.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID      *uint   `gorm:"column:booking_id;index" json:"booking_id,omitempty"`
	BookingGroupID *string `gorm:"column:booking_group_id;size:64;index" json:"booking_group_id,omitempty"`

	Amount       float64  `json:"amount"`
	Currency     string   `gorm:"size:8" json:"currency"`
	ExchangeRate *float64 `gorm:"column:exchange_rate" json:"exchange_rate,omitempty"`
	AmountUSD    float64  `gorm:"column:amount_usd" json:"amount_usd"`
	AmountLocal  *float64 `gorm:"column:amount_local" json:"amount_local,omitempty"`

	PaymentMethod string  `gorm:"column:payment_method;size:32" json:"payment_method"`
	TransactionID *string `gorm:"column:transaction_id;size:255" json:"transaction_id,omitempty"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`

	// ProcessedBy is the admin who recorded the payment.
	ProcessedBy uint `gorm:"column:processed_by" json:"processed_by"`

	CreatedAt time.Time `json:"created_at"`

	Booking   *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Processor User     `gorm:"foreignKey:ProcessedBy" json:"-"`
}
