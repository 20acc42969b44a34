// services/booking_service_test.go
package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation/models"
	"hotel-reservation/services"
)

func TestCreateBookingGroupMultiRoom(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	double := createRoomType(t, db, "Double Room", 89.99)
	createRooms(t, db, double.ID, 3)

	checkIn, checkOut := stayDates(2)
	summary, err := svc.CreateBookingGroup(user.ID, services.CreateGroupInput{
		RoomTypeIDs:   []uint{double.ID, double.ID},
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        4,
		PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(summary.BookingGroupID, "BKG-"))
	assert.Equal(t, models.StatusConfirmed, summary.Status)
	assert.Equal(t, models.PaymentUnpaid, summary.PaymentStatus)
	assert.Equal(t, 2, summary.Nights)
	assert.InDelta(t, 359.96, summary.TotalPrice, 0.001)
	require.Len(t, summary.Rooms, 1)
	assert.Equal(t, 2, summary.Rooms[0].Quantity)
	assert.InDelta(t, 359.96, summary.Rooms[0].Subtotal, 0.001)

	bookings := loadGroup(t, db, summary.BookingGroupID)
	require.Len(t, bookings, 2)
	for _, b := range bookings {
		assert.Equal(t, models.StatusConfirmed, b.Status)
		assert.InDelta(t, 179.98, b.TotalPrice, 0.001)
		assert.Nil(t, b.RoomID)
	}

	// Creation never consumes inventory.
	var available int64
	db.Model(&models.Room{}).Where("is_available = ?", true).Count(&available)
	assert.EqualValues(t, 3, available)
}

func TestCreateBookingGroupElectronicPaymentIsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	single := createRoomType(t, db, "Single Room", 49.99)
	createRooms(t, db, single.ID, 1)

	checkIn, checkOut := stayDates(1)
	summary, err := svc.CreateBookingGroup(user.ID, services.CreateGroupInput{
		RoomTypeIDs:   []uint{single.ID},
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        1,
		PaymentMethod: models.MethodCreditCard,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, summary.PaymentStatus)
	assert.Contains(t, summary.NextStep, "gateway")
}

func TestCreateBookingGroupInsufficientAvailabilityCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	double := createRoomType(t, db, "Double Room", 89.99)
	createRooms(t, db, double.ID, 1)

	checkIn, checkOut := stayDates(2)
	_, err := svc.CreateBookingGroup(user.ID, services.CreateGroupInput{
		RoomTypeIDs:   []uint{double.ID, double.ID},
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        4,
		PaymentMethod: models.MethodCash,
	})
	require.ErrorIs(t, err, services.ErrInsufficientAvailability)

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateBookingGroupValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	single := createRoomType(t, db, "Single Room", 49.99)
	createRooms(t, db, single.ID, 2)

	checkIn, checkOut := stayDates(1)

	cases := []struct {
		name    string
		input   services.CreateGroupInput
		wantErr error
	}{
		{
			name: "no room types",
			input: services.CreateGroupInput{
				CheckInDate: checkIn, CheckOutDate: checkOut, Guests: 1,
				PaymentMethod: models.MethodCash,
			},
			wantErr: services.ErrValidation,
		},
		{
			name: "past check-in",
			input: services.CreateGroupInput{
				RoomTypeIDs: []uint{single.ID},
				CheckInDate: time.Now().AddDate(0, 0, -2), CheckOutDate: checkOut,
				Guests: 1, PaymentMethod: models.MethodCash,
			},
			wantErr: services.ErrValidation,
		},
		{
			name: "check-out not after check-in",
			input: services.CreateGroupInput{
				RoomTypeIDs: []uint{single.ID},
				CheckInDate: checkIn, CheckOutDate: checkIn,
				Guests: 1, PaymentMethod: models.MethodCash,
			},
			wantErr: services.ErrValidation,
		},
		{
			name: "bad payment method",
			input: services.CreateGroupInput{
				RoomTypeIDs: []uint{single.ID},
				CheckInDate: checkIn, CheckOutDate: checkOut,
				Guests: 1, PaymentMethod: "barter",
			},
			wantErr: services.ErrValidation,
		},
		{
			name: "unsupported currency",
			input: services.CreateGroupInput{
				RoomTypeIDs: []uint{single.ID},
				CheckInDate: checkIn, CheckOutDate: checkOut,
				Guests: 1, PaymentMethod: models.MethodCash, Currency: "EUR",
			},
			wantErr: services.ErrUnsupportedCurrency,
		},
		{
			name: "unknown room type",
			input: services.CreateGroupInput{
				RoomTypeIDs: []uint{9999},
				CheckInDate: checkIn, CheckOutDate: checkOut,
				Guests: 1, PaymentMethod: models.MethodCash,
			},
			wantErr: services.ErrRoomTypeNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBookingGroup(user.ID, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAggregateGroupStatus(t *testing.T) {
	mk := func(statuses []string, payments []string) []models.Booking {
		bookings := make([]models.Booking, len(statuses))
		for i := range statuses {
			bookings[i] = models.Booking{Status: statuses[i], PaymentStatus: payments[i]}
		}
		return bookings
	}

	cases := []struct {
		name        string
		statuses    []string
		payments    []string
		wantStatus  string
		wantPayment string
	}{
		{
			name:     "completed dominates everything",
			statuses: []string{models.StatusCancelled, models.StatusCompleted, models.StatusCheckedIn},
			payments: []string{models.PaymentPaid, models.PaymentPaid, models.PaymentPaid},
			wantStatus: models.StatusCompleted, wantPayment: models.PaymentPaid,
		},
		{
			name:     "checked in beats confirmed",
			statuses: []string{models.StatusConfirmed, models.StatusCheckedIn},
			payments: []string{models.PaymentUnpaid, models.PaymentPaid},
			wantStatus: models.StatusCheckedIn, wantPayment: models.PaymentUnpaid,
		},
		{
			name:     "all confirmed",
			statuses: []string{models.StatusConfirmed, models.StatusConfirmed},
			payments: []string{models.PaymentPending, models.PaymentPending},
			wantStatus: models.StatusConfirmed, wantPayment: models.PaymentPending,
		},
		{
			name:     "all cancelled",
			statuses: []string{models.StatusCancelled, models.StatusCancelled},
			payments: []string{models.PaymentUnpaid, models.PaymentUnpaid},
			wantStatus: models.StatusCancelled, wantPayment: models.PaymentUnpaid,
		},
		{
			name:     "cancelled plus confirmed falls back to confirmed",
			statuses: []string{models.StatusCancelled, models.StatusConfirmed},
			payments: []string{models.PaymentPaid, models.PaymentUnpaid},
			wantStatus: models.StatusConfirmed, wantPayment: models.PaymentUnpaid,
		},
		{
			name:     "legacy checked_out still reads as checked_out",
			statuses: []string{models.StatusCheckedOut, models.StatusCheckedIn},
			payments: []string{models.PaymentPaid, models.PaymentPaid},
			wantStatus: models.StatusCheckedOut, wantPayment: models.PaymentPaid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payment := services.AggregateGroupStatus(mk(tc.statuses, tc.payments))
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantPayment, payment)

			// Aggregation is a pure read: a second pass must agree.
			again, paymentAgain := services.AggregateGroupStatus(mk(tc.statuses, tc.payments))
			assert.Equal(t, status, again)
			assert.Equal(t, payment, paymentAgain)
		})
	}
}

func TestListUserBookingsGroupsRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)
	double := createRoomType(t, db, "Double Room", 89.99)
	createRooms(t, db, double.ID, 4)

	checkIn, checkOut := stayDates(2)
	first, err := svc.CreateBookingGroup(user.ID, services.CreateGroupInput{
		RoomTypeIDs: []uint{double.ID, double.ID},
		CheckInDate: checkIn, CheckOutDate: checkOut,
		Guests: 2, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)
	_, err = svc.CreateBookingGroup(other.ID, services.CreateGroupInput{
		RoomTypeIDs: []uint{double.ID},
		CheckInDate: checkIn, CheckOutDate: checkOut,
		Guests: 1, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)

	groups, err := svc.ListUserBookings(user.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, first.BookingGroupID, groups[0].BookingGroupID)
	assert.Len(t, groups[0].Bookings, 2)
	assert.InDelta(t, 359.96, groups[0].TotalPrice, 0.001)
}

func TestListUserBookingsLegacyRowsGetVirtualGroups(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	double := createRoomType(t, db, "Double Room", 89.99)

	checkIn, checkOut := stayDates(1)
	legacy := models.Booking{
		UserID:        user.ID,
		RoomTypeID:    double.ID,
		CheckInDate:   dateOf(checkIn),
		CheckOutDate:  dateOf(checkOut),
		Guests:        1,
		Status:        models.StatusConfirmed,
		TotalPrice:    89.99,
		Currency:      models.BaseCurrency,
		PaymentStatus: models.PaymentUnpaid,
		PaymentMethod: models.MethodCash,
	}
	require.NoError(t, db.Create(&legacy).Error)

	groups, err := svc.ListUserBookings(user.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.True(t, strings.HasPrefix(groups[0].BookingGroupID, "BKG-LEGACY-"))

	detail, err := svc.GetGroupDetail(groups[0].BookingGroupID, &user)
	require.NoError(t, err)
	assert.Len(t, detail.Bookings, 1)
}

func TestGetGroupDetailHidesForeignGroups(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	stranger := createUser(t, db, "stranger@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	double := createRoomType(t, db, "Double Room", 89.99)
	createRooms(t, db, double.ID, 1)

	checkIn, checkOut := stayDates(1)
	summary, err := svc.CreateBookingGroup(owner.ID, services.CreateGroupInput{
		RoomTypeIDs: []uint{double.ID},
		CheckInDate: checkIn, CheckOutDate: checkOut,
		Guests: 2, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)

	_, err = svc.GetGroupDetail(summary.BookingGroupID, &stranger)
	assert.ErrorIs(t, err, services.ErrGroupNotFound)

	detail, err := svc.GetGroupDetail(summary.BookingGroupID, &admin)
	require.NoError(t, err)
	assert.Equal(t, summary.BookingGroupID, detail.BookingGroupID)

	_, err = svc.GetGroupDetail("BKG-missing", &admin)
	assert.ErrorIs(t, err, services.ErrGroupNotFound)
}

func TestGetCheckInDetails(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	double := createRoomType(t, db, "Double Room", 89.99)
	single := createRoomType(t, db, "Single Room", 49.99)
	createRooms(t, db, double.ID, 2)
	createRooms(t, db, single.ID, 1)

	checkIn, checkOut := stayDates(2)
	summary, err := svc.CreateBookingGroup(user.ID, services.CreateGroupInput{
		RoomTypeIDs: []uint{double.ID, double.ID, single.ID},
		CheckInDate: checkIn, CheckOutDate: checkOut,
		Guests: 3, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)

	details, err := svc.GetCheckInDetails(summary.BookingGroupID)
	require.NoError(t, err)
	assert.Equal(t, 2, details.Nights)
	assert.Equal(t, "guest@example.com", details.Guest.Email)
	require.Len(t, details.RoomRequirements, 2)

	doubles := details.RoomRequirements[0]
	assert.Equal(t, double.ID, doubles.RoomTypeID)
	assert.Equal(t, 2, doubles.RequiredCount)
	assert.Equal(t, 0, doubles.AssignedCount)
	assert.Equal(t, 2, doubles.AvailableCount)
	assert.True(t, doubles.Sufficient)
}

func TestBackfillGroupIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(db)
	user := createUser(t, db, "guest@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)
	double := createRoomType(t, db, "Double Room", 89.99)

	checkIn, checkOut := stayDates(2)
	laterIn, laterOut := stayDates(5)

	seed := []models.Booking{
		{UserID: user.ID, RoomTypeID: double.ID, CheckInDate: dateOf(checkIn), CheckOutDate: dateOf(checkOut)},
		{UserID: user.ID, RoomTypeID: double.ID, CheckInDate: dateOf(checkIn), CheckOutDate: dateOf(checkOut)},
		{UserID: user.ID, RoomTypeID: double.ID, CheckInDate: dateOf(laterIn), CheckOutDate: dateOf(laterOut)},
		{UserID: other.ID, RoomTypeID: double.ID, CheckInDate: dateOf(checkIn), CheckOutDate: dateOf(checkOut)},
	}
	for i := range seed {
		seed[i].Guests = 1
		seed[i].Status = models.StatusConfirmed
		seed[i].TotalPrice = 89.99
		seed[i].Currency = models.BaseCurrency
		seed[i].PaymentStatus = models.PaymentUnpaid
		seed[i].PaymentMethod = models.MethodCash
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	groups, updated, err := svc.BackfillGroupIDs()
	require.NoError(t, err)
	assert.Equal(t, 3, groups)
	assert.Equal(t, 4, updated)

	var remaining int64
	db.Model(&models.Booking{}).Where("booking_group_id IS NULL OR booking_group_id = ''").Count(&remaining)
	assert.EqualValues(t, 0, remaining)

	// Same-stay rows by the same user share one group.
	var a, b models.Booking
	require.NoError(t, db.First(&a, seed[0].ID).Error)
	require.NoError(t, db.First(&b, seed[1].ID).Error)
	require.NotNil(t, a.BookingGroupID)
	require.NotNil(t, b.BookingGroupID)
	assert.Equal(t, *a.BookingGroupID, *b.BookingGroupID)

	// Second run is a no-op.
	groups, updated, err = svc.BackfillGroupIDs()
	require.NoError(t, err)
	assert.Zero(t, groups)
	assert.Zero(t, updated)
}
