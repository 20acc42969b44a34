// services/payment_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation/models"
	"hotel-reservation/services"
)

func TestProcessGroupPaymentUSD(t *testing.T) {
	db := setupTestDB(t)
	bookingSvc := newBookingService(db)
	paymentSvc := services.NewPaymentService(db, services.NewCurrencyService())
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	double := createRoomType(t, db, "Double Room", 89.99)
	createRooms(t, db, double.ID, 2)

	summary := bookGroup(t, bookingSvc, user.ID, []uint{double.ID, double.ID}, models.MethodBankTransfer)

	receipt, err := paymentSvc.ProcessGroupPayment(summary.BookingGroupID, services.GroupPaymentInput{
		PaymentMethod: models.MethodBankTransfer,
		ProcessedBy:   admin.ID,
	})
	require.NoError(t, err)
	assert.InDelta(t, 359.96, receipt.AmountUSD, 0.001)
	assert.Equal(t, models.BaseCurrency, receipt.Currency)
	assert.Nil(t, receipt.AmountLocal)
	assert.Equal(t, 2, receipt.BookingsPaid)

	for _, b := range loadGroup(t, db, summary.BookingGroupID) {
		assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
		assert.Equal(t, models.MethodBankTransfer, b.PaymentMethod)
	}

	var payment models.Payment
	require.NoError(t, db.First(&payment, receipt.PaymentID).Error)
	require.NotNil(t, payment.BookingGroupID)
	assert.Equal(t, summary.BookingGroupID, *payment.BookingGroupID)
	assert.InDelta(t, 359.96, payment.AmountUSD, 0.001)
	assert.Equal(t, admin.ID, payment.ProcessedBy)
}

func TestProcessGroupPaymentKHR(t *testing.T) {
	db := setupTestDB(t)
	bookingSvc := newBookingService(db)
	paymentSvc := services.NewPaymentService(db, services.NewCurrencyService())
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	double := createRoomType(t, db, "Double Room", 50.00)
	createRooms(t, db, double.ID, 1)

	summary := bookGroup(t, bookingSvc, user.ID, []uint{double.ID}, models.MethodCash)

	receipt, err := paymentSvc.ProcessGroupPayment(summary.BookingGroupID, services.GroupPaymentInput{
		PaymentMethod: models.MethodCash,
		Currency:      "KHR",
		ProcessedBy:   admin.ID,
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.00, receipt.AmountUSD, 0.001)
	require.NotNil(t, receipt.AmountLocal)
	assert.InDelta(t, 410000, *receipt.AmountLocal, 0.01)
	require.NotNil(t, receipt.ExchangeRate)
	assert.InDelta(t, 4100, *receipt.ExchangeRate, 0.001)

	for _, b := range loadGroup(t, db, summary.BookingGroupID) {
		assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
		assert.Equal(t, "KHR", b.Currency)
		require.NotNil(t, b.TotalPriceLocal)
		assert.InDelta(t, 410000, *b.TotalPriceLocal, 0.01)
	}
}

func TestProcessGroupPaymentErrors(t *testing.T) {
	db := setupTestDB(t)
	paymentSvc := services.NewPaymentService(db, services.NewCurrencyService())

	_, err := paymentSvc.ProcessGroupPayment("BKG-missing", services.GroupPaymentInput{
		PaymentMethod: models.MethodCash,
	})
	assert.ErrorIs(t, err, services.ErrGroupNotFound)

	_, err = paymentSvc.ProcessGroupPayment("BKG-missing", services.GroupPaymentInput{
		PaymentMethod: "barter",
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = paymentSvc.ProcessGroupPayment("BKG-missing", services.GroupPaymentInput{
		PaymentMethod: models.MethodCash,
		Currency:      "EUR",
	})
	assert.ErrorIs(t, err, services.ErrUnsupportedCurrency)
}

func TestListPayments(t *testing.T) {
	db := setupTestDB(t)
	bookingSvc := newBookingService(db)
	paymentSvc := services.NewPaymentService(db, services.NewCurrencyService())
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	double := createRoomType(t, db, "Double Room", 89.99)
	createRooms(t, db, double.ID, 1)

	summary := bookGroup(t, bookingSvc, user.ID, []uint{double.ID}, models.MethodCash)
	_, err := paymentSvc.ProcessGroupPayment(summary.BookingGroupID, services.GroupPaymentInput{
		PaymentMethod: models.MethodCash,
		ProcessedBy:   admin.ID,
	})
	require.NoError(t, err)

	payments, err := paymentSvc.ListPayments()
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, admin.ID, payments[0].ProcessedBy)
}
