// services/checkin_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotel-reservation/models"
)

// PaymentUpdate carries optional payment fields applied alongside a
// status transition. A zero-value Status means no payment change.
type PaymentUpdate struct {
	Status       string
	Method       string
	Currency     string
	ExchangeRate *float64
}

func (p *PaymentUpdate) validate() error {
	if p == nil || p.Status == "" {
		return nil
	}
	if !models.ValidPaymentStatus(p.Status) {
		return fmt.Errorf("%w: invalid payment_status %q", ErrValidation, p.Status)
	}
	if p.Method != "" && !models.ValidPaymentMethod(p.Method) {
		return fmt.Errorf("%w: invalid payment_method %q", ErrValidation, p.Method)
	}
	if p.Currency != "" && p.Currency != models.BaseCurrency && p.ExchangeRate == nil {
		return fmt.Errorf("%w: currency %s", ErrExchangeRateRequired, p.Currency)
	}
	return nil
}

// paymentUpdates merges payment fields into a pending updates map.
// Currency details are only recorded when the row is being marked
// paid, and total_price_local is derived from the immutable USD
// total, never the other way around.
func paymentUpdates(b *models.Booking, p *PaymentUpdate, updates map[string]interface{}) {
	if p == nil || p.Status == "" {
		return
	}
	updates["payment_status"] = p.Status
	if p.Status != models.PaymentPaid {
		return
	}
	if p.Method != "" {
		updates["payment_method"] = p.Method
	}
	if p.Currency != "" {
		updates["currency"] = p.Currency
		if p.Currency != models.BaseCurrency && p.ExchangeRate != nil {
			updates["exchange_rate"] = *p.ExchangeRate
			updates["total_price_local"] = b.TotalPrice * *p.ExchangeRate
		}
	}
}

// assignRoomTx claims a room and checks one booking in, inside the
// caller's transaction. The claim is a compare-and-swap on
// is_available, so two concurrent assignments of the same room cannot
// both succeed.
func assignRoomTx(tx *gorm.DB, booking *models.Booking, room *models.Room, pay *PaymentUpdate) error {
	if booking.Status != models.StatusConfirmed {
		return fmt.Errorf("%w: booking %d is %s", ErrNotConfirmed, booking.ID, booking.Status)
	}
	if room.RoomTypeID != booking.RoomTypeID {
		return fmt.Errorf("%w: room %q does not match booking %d", ErrRoomTypeMismatch, room.Name, booking.ID)
	}
	if err := claimRoom(tx, room.ID); err != nil {
		return fmt.Errorf("room %q: %w", room.Name, err)
	}

	updates := map[string]interface{}{
		"status":  models.StatusCheckedIn,
		"room_id": room.ID,
	}
	paymentUpdates(booking, pay, updates)

	if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update booking %d: %w", booking.ID, err)
	}
	return nil
}

type RoomAssignment struct {
	BookingID uint `json:"booking_id" binding:"required"`
	RoomID    uint `json:"room_id" binding:"required"`
}

type AssignedRoom struct {
	BookingID     uint   `json:"booking_id"`
	RoomTypeID    uint   `json:"room_type_id,omitempty"`
	RoomID        uint   `json:"room_id"`
	RoomName      string `json:"room_name"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

// AssignmentOutcome reports a batch assignment. Successes and
// failures are independent: one bad pair never rolls back the others.
type AssignmentOutcome struct {
	BookingGroupID string         `json:"booking_group_id,omitempty"`
	GroupStatus    string         `json:"booking_group_status,omitempty"`
	PaymentStatus  string         `json:"payment_status,omitempty"`
	Assigned       []AssignedRoom `json:"successful_assignments"`
	Errors         []string       `json:"errors"`
}

func (o *AssignmentOutcome) Partial() bool {
	return len(o.Errors) > 0 && len(o.Assigned) > 0
}

func (o *AssignmentOutcome) AllFailed() bool {
	return len(o.Errors) > 0 && len(o.Assigned) == 0
}

// AssignRoomsToBookings processes explicit booking/room pairs, each
// in its own transaction.
func (s *BookingService) AssignRoomsToBookings(pairs []RoomAssignment, pay *PaymentUpdate) (*AssignmentOutcome, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: assignments must not be empty", ErrValidation)
	}
	if err := pay.validate(); err != nil {
		return nil, err
	}

	outcome := &AssignmentOutcome{Assigned: []AssignedRoom{}, Errors: []string{}}
	for _, pair := range pairs {
		var booking models.Booking
		if err := s.DB.First(&booking, pair.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("booking %d not found", pair.BookingID))
				continue
			}
			return nil, fmt.Errorf("failed to load booking %d: %w", pair.BookingID, err)
		}

		var room models.Room
		if err := s.DB.First(&room, pair.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("room %d not found", pair.RoomID))
				continue
			}
			return nil, fmt.Errorf("failed to load room %d: %w", pair.RoomID, err)
		}

		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return assignRoomTx(tx, &booking, &room, pay)
		})
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			continue
		}

		paymentStatus := booking.PaymentStatus
		if pay != nil && pay.Status != "" {
			paymentStatus = pay.Status
		}
		outcome.Assigned = append(outcome.Assigned, AssignedRoom{
			BookingID:     booking.ID,
			RoomTypeID:    booking.RoomTypeID,
			RoomID:        room.ID,
			RoomName:      room.Name,
			Status:        models.StatusCheckedIn,
			PaymentStatus: paymentStatus,
		})
	}
	return outcome, nil
}

type RoomTypeAssignment struct {
	RoomTypeID uint   `json:"room_type_id" binding:"required"`
	RoomIDs    []uint `json:"room_ids" binding:"required"`
}

// CheckInGroup checks in a group's unassigned confirmed bookings,
// matching the offered rooms of each type against the bookings of
// that type positionally.
func (s *BookingService) CheckInGroup(groupID string, assignments []RoomTypeAssignment, pay *PaymentUpdate) (*AssignmentOutcome, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("%w: room_assignments must not be empty", ErrValidation)
	}
	if err := pay.validate(); err != nil {
		return nil, err
	}

	eligible, err := s.eligibleGroupBookings(groupID)
	if err != nil {
		return nil, err
	}

	byType := map[uint][]models.Booking{}
	for _, b := range eligible {
		byType[b.RoomTypeID] = append(byType[b.RoomTypeID], b)
	}

	outcome := &AssignmentOutcome{
		BookingGroupID: groupID,
		Assigned:       []AssignedRoom{},
		Errors:         []string{},
	}
	for _, assignment := range assignments {
		typeBookings := byType[assignment.RoomTypeID]
		if len(typeBookings) == 0 {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("no pending bookings for room type %d", assignment.RoomTypeID))
			continue
		}
		if len(assignment.RoomIDs) < len(typeBookings) {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("room type %d needs %d rooms, got %d",
					assignment.RoomTypeID, len(typeBookings), len(assignment.RoomIDs)))
			continue
		}
		s.assignPositional(outcome, typeBookings, assignment.RoomIDs, pay)
	}

	s.finishOutcome(outcome, groupID)
	return outcome, nil
}

// AssignRooms is the strict variant of CheckInGroup: each selection
// must supply exactly as many rooms as the type has pending bookings.
func (s *BookingService) AssignRooms(groupID string, selections []RoomTypeAssignment, pay *PaymentUpdate) (*AssignmentOutcome, error) {
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: room_selections must not be empty", ErrValidation)
	}
	if err := pay.validate(); err != nil {
		return nil, err
	}

	eligible, err := s.eligibleGroupBookings(groupID)
	if err != nil {
		return nil, err
	}

	byType := map[uint][]models.Booking{}
	for _, b := range eligible {
		byType[b.RoomTypeID] = append(byType[b.RoomTypeID], b)
	}

	outcome := &AssignmentOutcome{
		BookingGroupID: groupID,
		Assigned:       []AssignedRoom{},
		Errors:         []string{},
	}
	for _, selection := range selections {
		typeBookings := byType[selection.RoomTypeID]
		if len(typeBookings) == 0 {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("no pending bookings for room type %d", selection.RoomTypeID))
			continue
		}
		if len(selection.RoomIDs) != len(typeBookings) {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("room type %d expects exactly %d rooms, got %d",
					selection.RoomTypeID, len(typeBookings), len(selection.RoomIDs)))
			continue
		}
		s.assignPositional(outcome, typeBookings, selection.RoomIDs, pay)
	}

	s.finishOutcome(outcome, groupID)
	return outcome, nil
}

// eligibleGroupBookings returns the group's confirmed, room-less
// bookings, or ErrNoEligibleBookings when there are none left.
func (s *BookingService) eligibleGroupBookings(groupID string) ([]models.Booking, error) {
	bookings, err := s.groupBookings(groupID)
	if err != nil {
		return nil, err
	}
	var eligible []models.Booking
	for _, b := range bookings {
		if b.Status == models.StatusConfirmed && b.RoomID == nil {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: group %s", ErrNoEligibleBookings, groupID)
	}
	return eligible, nil
}

func (s *BookingService) assignPositional(outcome *AssignmentOutcome, bookings []models.Booking, roomIDs []uint, pay *PaymentUpdate) {
	for i := range bookings {
		booking := bookings[i]
		var room models.Room
		if err := s.DB.First(&room, roomIDs[i]).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("room %d not found", roomIDs[i]))
				continue
			}
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("room %d: %v", roomIDs[i], err))
			continue
		}

		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return assignRoomTx(tx, &booking, &room, pay)
		})
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			continue
		}

		paymentStatus := booking.PaymentStatus
		if pay != nil && pay.Status != "" {
			paymentStatus = pay.Status
		}
		outcome.Assigned = append(outcome.Assigned, AssignedRoom{
			BookingID:     booking.ID,
			RoomTypeID:    booking.RoomTypeID,
			RoomID:        room.ID,
			RoomName:      room.Name,
			Status:        models.StatusCheckedIn,
			PaymentStatus: paymentStatus,
		})
	}
}

func (s *BookingService) finishOutcome(outcome *AssignmentOutcome, groupID string) {
	bookings, err := s.groupBookings(groupID)
	if err != nil {
		return
	}
	outcome.GroupStatus, outcome.PaymentStatus = AggregateGroupStatus(bookings)
}

// CheckInBooking assigns a single booking to a room, optionally
// applying payment fields in the same transaction.
func (s *BookingService) CheckInBooking(bookingID, roomID uint, pay *PaymentUpdate) (*models.Booking, error) {
	if err := pay.validate(); err != nil {
		return nil, err
	}
	booking, room, err := s.loadBookingAndRoom(bookingID, roomID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return assignRoomTx(tx, booking, room, pay)
	})
	if err != nil {
		return nil, err
	}
	return s.reloadBooking(bookingID)
}

// CheckInWithPayment records a payment and checks the booking in
// atomically. The amount is converted to USD before the sufficiency
// check; an insufficient amount leaves both the booking and the room
// untouched.
func (s *BookingService) CheckInWithPayment(bookingID, roomID uint, amount float64, currency string, processedBy uint) (*models.Booking, error) {
	booking, room, err := s.loadBookingAndRoom(bookingID, roomID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrNotConfirmed, booking.ID, booking.Status)
	}
	if room.RoomTypeID != booking.RoomTypeID {
		return nil, fmt.Errorf("%w: room %q does not match booking %d", ErrRoomTypeMismatch, room.Name, booking.ID)
	}

	rate, err := s.Currency.Rate(currency)
	if err != nil {
		return nil, err
	}
	amountUSD := amount
	if currency != models.BaseCurrency {
		amountUSD = amount / rate
	}
	if amountUSD < booking.TotalPrice {
		return nil, fmt.Errorf("%w: received %.2f USD, booking total is %.2f USD",
			ErrInsufficientPayment, amountUSD, booking.TotalPrice)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := claimRoom(tx, room.ID); err != nil {
			return fmt.Errorf("room %q: %w", room.Name, err)
		}

		updates := map[string]interface{}{
			"status":         models.StatusCheckedIn,
			"room_id":        room.ID,
			"payment_status": models.PaymentPaid,
			"currency":       currency,
		}
		if currency != models.BaseCurrency {
			updates["exchange_rate"] = rate
			updates["total_price_local"] = booking.TotalPrice * rate
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update booking %d: %w", booking.ID, err)
		}

		payment := models.Payment{
			BookingID:     &booking.ID,
			Amount:        amount,
			Currency:      currency,
			ExchangeRate:  &rate,
			AmountUSD:     amountUSD,
			PaymentMethod: booking.PaymentMethod,
			ProcessedBy:   processedBy,
		}
		if currency != models.BaseCurrency {
			payment.AmountLocal = &amount
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment for booking %d: %w", booking.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reloadBooking(bookingID)
}

// CheckOutBooking completes a checked-in booking and returns its room
// to inventory.
func (s *BookingService) CheckOutBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	if booking.Status != models.StatusCheckedIn {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrNotCheckedIn, booking.ID, booking.Status)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if booking.RoomID != nil {
			if err := releaseRoom(tx, *booking.RoomID); err != nil {
				return err
			}
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("status", models.StatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	return s.reloadBooking(bookingID)
}

type CheckedOutBooking struct {
	BookingID uint  `json:"booking_id"`
	RoomID    *uint `json:"room_id,omitempty"`
}

type GroupCheckOutResult struct {
	BookingGroupID string              `json:"booking_group_id"`
	CheckedOut     []CheckedOutBooking `json:"checked_out"`
}

// CheckOutGroup completes every checked-in booking in a group and
// releases their rooms, all in one transaction.
func (s *BookingService) CheckOutGroup(groupID string) (*GroupCheckOutResult, error) {
	bookings, err := s.groupBookings(groupID)
	if err != nil {
		return nil, err
	}

	var eligible []models.Booking
	for _, b := range bookings {
		if b.Status == models.StatusCheckedIn {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: no checked-in bookings in group %s", ErrNoEligibleBookings, groupID)
	}

	result := &GroupCheckOutResult{BookingGroupID: groupID}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, b := range eligible {
			if b.RoomID != nil {
				if err := releaseRoom(tx, *b.RoomID); err != nil {
					return err
				}
			}
			err := tx.Model(&models.Booking{}).
				Where("id = ?", b.ID).
				Update("status", models.StatusCompleted).Error
			if err != nil {
				return fmt.Errorf("failed to check out booking %d: %w", b.ID, err)
			}
			result.CheckedOut = append(result.CheckedOut, CheckedOutBooking{BookingID: b.ID, RoomID: b.RoomID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelBooking cancels a single booking, releasing and detaching its
// room if one was assigned. Terminal bookings cannot be cancelled.
func (s *BookingService) CancelBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	if models.IsTerminal(booking.Status) {
		return nil, fmt.Errorf("%w: booking %d is already %s", ErrTerminalStatus, booking.ID, booking.Status)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": models.StatusCancelled}
		if booking.RoomID != nil {
			if err := releaseRoom(tx, *booking.RoomID); err != nil {
				return err
			}
			updates["room_id"] = nil
		}
		return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.reloadBooking(bookingID)
}

type GroupUpdateResult struct {
	BookingGroupID  string   `json:"booking_group_id"`
	BookingStatus   string   `json:"booking_status"`
	PaymentStatus   string   `json:"payment_status"`
	Updated         int      `json:"updated"`
	Skipped         int      `json:"skipped"`
	TotalPriceUSD   float64  `json:"total_price_usd"`
	TotalPriceLocal *float64 `json:"total_price_local,omitempty"`
}

// UpdateGroupByBooking applies a status and/or payment change to the
// whole group a booking belongs to, in one transaction. Terminal
// members are skipped, not rejected. Checking in through this path is
// refused because it cannot carry room assignments.
func (s *BookingService) UpdateGroupByBooking(bookingID uint, status string, pay *PaymentUpdate) (*GroupUpdateResult, error) {
	if status != "" {
		if !models.ValidStatus(status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
		}
		status = models.NormalizeStatus(status)
		if status == models.StatusCheckedIn {
			return nil, fmt.Errorf("%w: use the room assignment endpoints to check in", ErrValidation)
		}
	}
	if err := pay.validate(); err != nil {
		return nil, err
	}
	if status == "" && (pay == nil || pay.Status == "") {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}

	groupID := EffectiveGroupID(&booking)
	bookings, err := s.groupBookings(groupID)
	if err != nil {
		return nil, err
	}

	result := &GroupUpdateResult{BookingGroupID: groupID}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range bookings {
			b := bookings[i]
			if models.IsTerminal(b.Status) {
				result.Skipped++
				continue
			}

			updates := map[string]interface{}{}
			if status != "" && b.Status != status {
				updates["status"] = status
				if b.RoomID != nil && (status == models.StatusCancelled || status == models.StatusCompleted) {
					if err := releaseRoom(tx, *b.RoomID); err != nil {
						return err
					}
					if status == models.StatusCancelled {
						updates["room_id"] = nil
					}
				}
			}
			paymentUpdates(&b, pay, updates)
			if len(updates) == 0 {
				result.Skipped++
				continue
			}

			if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update booking %d: %w", b.ID, err)
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bookings, err = s.groupBookings(groupID)
	if err != nil {
		return nil, err
	}
	result.BookingStatus, result.PaymentStatus = AggregateGroupStatus(bookings)
	for _, b := range bookings {
		result.TotalPriceUSD += b.TotalPrice
	}
	if pay != nil && pay.Status == models.PaymentPaid && pay.Currency != "" &&
		pay.Currency != models.BaseCurrency && pay.ExchangeRate != nil {
		local := result.TotalPriceUSD * *pay.ExchangeRate
		result.TotalPriceLocal = &local
	}
	return result, nil
}

// DeleteGroup soft-deletes every booking in a group, releasing any
// rooms still held. Returns the number of bookings removed.
func (s *BookingService) DeleteGroup(groupID string) (int, error) {
	bookings, err := s.groupBookings(groupID)
	if err != nil {
		return 0, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(bookings))
		for _, b := range bookings {
			if b.RoomID != nil && b.Status == models.StatusCheckedIn {
				if err := releaseRoom(tx, *b.RoomID); err != nil {
					return err
				}
			}
			ids = append(ids, b.ID)
		}
		if err := tx.Delete(&models.Booking{}, ids).Error; err != nil {
			return fmt.Errorf("failed to delete booking group %s: %w", groupID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(bookings), nil
}

func (s *BookingService) loadBookingAndRoom(bookingID, roomID uint) (*models.Booking, *models.Room, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
		}
		return nil, nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, roomID)
		}
		return nil, nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return &booking, &room, nil
}

func (s *BookingService) reloadBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("RoomType").
		Preload("Room").
		First(&booking, bookingID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking %d: %w", bookingID, err)
	}
	return &booking, nil
}
