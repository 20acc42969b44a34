// services/payment_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"hotel-reservation/models"
)

// PaymentService records payments. Payment rows are append-only
// evidence; booking payment_status is the operational flag.
type PaymentService struct {
	DB       *gorm.DB
	Currency *CurrencyService
}

func NewPaymentService(db *gorm.DB, currency *CurrencyService) *PaymentService {
	return &PaymentService{DB: db, Currency: currency}
}

type GroupPaymentInput struct {
	PaymentMethod string
	Currency      string
	TransactionID *string
	Notes         *string
	ProcessedBy   uint
}

type GroupPaymentReceipt struct {
	PaymentID      uint     `json:"payment_id"`
	BookingGroupID string   `json:"booking_group_id"`
	AmountUSD      float64  `json:"amount_usd"`
	AmountLocal    *float64 `json:"amount_local,omitempty"`
	Currency       string   `json:"currency"`
	ExchangeRate   *float64 `json:"exchange_rate,omitempty"`
	BookingsPaid   int      `json:"bookings_paid"`
	PaymentStatus  string   `json:"payment_status"`
}

// ProcessGroupPayment records one payment covering an entire group
// and marks every member booking paid, atomically. The amount is the
// group's USD total; for a non-base currency the local amount is
// derived from the configured rate.
func (p *PaymentService) ProcessGroupPayment(groupID string, in GroupPaymentInput) (*GroupPaymentReceipt, error) {
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment_method %q", ErrValidation, in.PaymentMethod)
	}
	currency := in.Currency
	if currency == "" {
		currency = models.BaseCurrency
	}
	rate, err := p.Currency.Rate(currency)
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if err := p.DB.Where("booking_group_id = ?", groupID).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load booking group %s: %w", groupID, err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}

	var totalUSD float64
	for _, b := range bookings {
		totalUSD += b.TotalPrice
	}

	receipt := &GroupPaymentReceipt{
		BookingGroupID: groupID,
		AmountUSD:      totalUSD,
		Currency:       currency,
		BookingsPaid:   len(bookings),
		PaymentStatus:  models.PaymentPaid,
	}

	err = p.DB.Transaction(func(tx *gorm.DB) error {
		payment := models.Payment{
			BookingGroupID: &groupID,
			Amount:         totalUSD,
			Currency:       currency,
			AmountUSD:      totalUSD,
			PaymentMethod:  in.PaymentMethod,
			TransactionID:  in.TransactionID,
			Notes:          in.Notes,
			ProcessedBy:    in.ProcessedBy,
		}
		updates := map[string]interface{}{
			"payment_status": models.PaymentPaid,
			"payment_method": in.PaymentMethod,
			"currency":       currency,
		}
		if currency != models.BaseCurrency {
			local := totalUSD * rate
			payment.Amount = local
			payment.ExchangeRate = &rate
			payment.AmountLocal = &local
			receipt.ExchangeRate = &rate
			receipt.AmountLocal = &local
			updates["exchange_rate"] = rate
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment for group %s: %w", groupID, err)
		}
		receipt.PaymentID = payment.ID

		res := tx.Model(&models.Booking{}).
			Where("booking_group_id = ?", groupID).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to mark group %s paid: %w", groupID, res.Error)
		}
		if currency != models.BaseCurrency {
			// total_price_local is per row, so it cannot ride the bulk update.
			for _, b := range bookings {
				local := b.TotalPrice * rate
				err := tx.Model(&models.Booking{}).
					Where("id = ?", b.ID).
					Update("total_price_local", local).Error
				if err != nil {
					return fmt.Errorf("failed to set local total on booking %d: %w", b.ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListPayments returns all recorded payments, newest first.
func (p *PaymentService) ListPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := p.DB.
		Preload("Booking").
		Preload("Processor").
		Order("created_at DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
