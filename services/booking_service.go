// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotel-reservation/models"
)

// BookingService is the booking-group engine: it creates groups of
// bookings, derives aggregate group state, and coordinates room
// assignment against inventory.
type BookingService struct {
	DB       *gorm.DB
	Currency *CurrencyService
}

func NewBookingService(db *gorm.DB, currency *CurrencyService) *BookingService {
	return &BookingService{DB: db, Currency: currency}
}

type CreateGroupInput struct {
	RoomTypeIDs   []uint
	CheckInDate   time.Time
	CheckOutDate  time.Time
	Guests        int
	PaymentMethod string
	Currency      string // optional, defaults to USD
}

// GroupLine summarizes one room type within a freshly created group.
type GroupLine struct {
	RoomTypeID   uint    `json:"room_type_id"`
	RoomTypeName string  `json:"room_type_name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

type GroupSummary struct {
	BookingGroupID string      `json:"booking_group_id"`
	Status         string      `json:"status"`
	PaymentStatus  string      `json:"payment_status"`
	CheckInDate    string      `json:"check_in_date"`
	CheckOutDate   string      `json:"check_out_date"`
	Nights         int         `json:"nights"`
	Guests         int         `json:"guests"`
	PaymentMethod  string      `json:"payment_method"`
	Currency       string      `json:"currency"`
	Rooms          []GroupLine `json:"rooms"`
	TotalPrice     float64     `json:"total_price"`
	NextStep       string      `json:"next_step"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nightsBetween(checkIn, checkOut time.Time) int {
	return int(dateOnly(checkOut).Sub(dateOnly(checkIn)).Hours() / 24)
}

func nextStepFor(paymentMethod string) string {
	switch paymentMethod {
	case models.MethodCreditCard:
		return "Redirect to the payment gateway to complete the payment."
	case models.MethodBankTransfer:
		return "Transfer the total amount and send the receipt to the hotel."
	default:
		return "Pay at the hotel front desk on arrival."
	}
}

// CreateBookingGroup creates one Booking row per requested room-type
// unit, all sharing a fresh group id. The whole operation is
// all-or-nothing: if any requested type lacks availability, nothing
// is created. Inventory is NOT flipped here; availability is only
// consumed at check-in.
func (s *BookingService) CreateBookingGroup(userID uint, in CreateGroupInput) (*GroupSummary, error) {
	if len(in.RoomTypeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one room_type_id is required", ErrValidation)
	}
	if in.Guests < 1 {
		return nil, fmt.Errorf("%w: guests must be at least 1", ErrValidation)
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment_method %q", ErrValidation, in.PaymentMethod)
	}

	currency := in.Currency
	if currency == "" {
		currency = models.BaseCurrency
	}
	if _, err := s.Currency.Rate(currency); err != nil {
		return nil, err
	}

	checkIn := dateOnly(in.CheckInDate)
	checkOut := dateOnly(in.CheckOutDate)
	today := dateOnly(time.Now())
	if checkIn.Before(today) {
		return nil, fmt.Errorf("%w: check_in_date must not be in the past", ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check_out_date must be after check_in_date", ErrValidation)
	}
	nights := nightsBetween(checkIn, checkOut)

	// Tally requested quantity per distinct type, keeping request order.
	counts := map[uint]int{}
	var order []uint
	for _, id := range in.RoomTypeIDs {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	paymentStatus := models.PaymentPending
	if in.PaymentMethod == models.MethodCash {
		paymentStatus = models.PaymentUnpaid
	}

	lines := make([]GroupLine, 0, len(order))
	var total float64
	typesByID := map[uint]models.RoomType{}

	for _, typeID := range order {
		var rt models.RoomType
		if err := s.DB.First(&rt, typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, typeID)
			}
			return nil, fmt.Errorf("failed to load room type %d: %w", typeID, err)
		}
		typesByID[typeID] = rt

		needed := counts[typeID]
		var available int64
		err := s.DB.Model(&models.Room{}).
			Where("room_type_id = ? AND is_available = ?", typeID, true).
			Count(&available).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count available rooms for type %d: %w", typeID, err)
		}
		if available < int64(needed) {
			return nil, fmt.Errorf("%w: room type %q needs %d, only %d available",
				ErrInsufficientAvailability, rt.Name, needed, available)
		}

		subtotal := float64(needed) * float64(nights) * rt.Price
		lines = append(lines, GroupLine{
			RoomTypeID:   typeID,
			RoomTypeName: rt.Name,
			Price:        rt.Price,
			Quantity:     needed,
			Subtotal:     subtotal,
		})
		total += subtotal
	}

	groupID := NewBookingGroupID()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, typeID := range order {
			rt := typesByID[typeID]
			for i := 0; i < counts[typeID]; i++ {
				booking := models.Booking{
					BookingGroupID: &groupID,
					UserID:         userID,
					RoomTypeID:     typeID,
					CheckInDate:    datatypes.Date(checkIn),
					CheckOutDate:   datatypes.Date(checkOut),
					Guests:         in.Guests,
					Status:         models.StatusConfirmed,
					TotalPrice:     float64(nights) * rt.Price,
					Currency:       currency,
					PaymentStatus:  paymentStatus,
					PaymentMethod:  in.PaymentMethod,
				}
				if err := tx.Create(&booking).Error; err != nil {
					return fmt.Errorf("failed to create booking for room type %d: %w", typeID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &GroupSummary{
		BookingGroupID: groupID,
		Status:         models.StatusConfirmed,
		PaymentStatus:  paymentStatus,
		CheckInDate:    checkIn.Format("2006-01-02"),
		CheckOutDate:   checkOut.Format("2006-01-02"),
		Nights:         nights,
		Guests:         in.Guests,
		PaymentMethod:  in.PaymentMethod,
		Currency:       currency,
		Rooms:          lines,
		TotalPrice:     total,
		NextStep:       nextStepFor(in.PaymentMethod),
	}, nil
}

// AggregateGroupStatus derives one representative status and payment
// status for a set of bookings sharing a group id. It scans every row
// on every call: members can be independently checked in or out, so
// no single row is authoritative.
//
// Status priority: completed > checked_out > checked_in > confirmed
// (all) > cancelled (all) > confirmed (default). Payment priority:
// paid (all) > unpaid (any) > pending (any) > unpaid (default).
func AggregateGroupStatus(bookings []models.Booking) (status, paymentStatus string) {
	var completed, checkedOut, checkedIn, confirmed, cancelled int
	var paid, unpaid, pending int
	total := len(bookings)

	for _, b := range bookings {
		switch b.Status {
		case models.StatusCompleted:
			completed++
		case models.StatusCheckedOut:
			checkedOut++
		case models.StatusCheckedIn:
			checkedIn++
		case models.StatusConfirmed:
			confirmed++
		case models.StatusCancelled:
			cancelled++
		}
		switch b.PaymentStatus {
		case models.PaymentPaid:
			paid++
		case models.PaymentUnpaid:
			unpaid++
		case models.PaymentPending:
			pending++
		}
	}

	switch {
	case completed > 0:
		status = models.StatusCompleted
	case checkedOut > 0:
		status = models.StatusCheckedOut
	case checkedIn > 0:
		status = models.StatusCheckedIn
	case total > 0 && confirmed == total:
		status = models.StatusConfirmed
	case total > 0 && cancelled == total:
		status = models.StatusCancelled
	default:
		status = models.StatusConfirmed
	}

	switch {
	case total > 0 && paid == total:
		paymentStatus = models.PaymentPaid
	case unpaid > 0:
		paymentStatus = models.PaymentUnpaid
	case pending > 0:
		paymentStatus = models.PaymentPending
	default:
		paymentStatus = models.PaymentUnpaid
	}
	return status, paymentStatus
}

// groupBookings loads every booking in a group. Virtual legacy ids
// (BKG-LEGACY-<booking id>) resolve to a single-row group.
func (s *BookingService) groupBookings(groupID string, preloads ...string) ([]models.Booking, error) {
	query := s.DB
	for _, p := range preloads {
		query = query.Preload(p)
	}

	if bookingID, ok := ParseLegacyGroupID(groupID); ok {
		var booking models.Booking
		if err := query.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
			}
			return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
		}
		if booking.BookingGroupID != nil && *booking.BookingGroupID != "" {
			// Row was backfilled since the virtual id was issued.
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
		}
		return []models.Booking{booking}, nil
	}

	var bookings []models.Booking
	if err := query.Where("booking_group_id = ?", groupID).Order("id").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load booking group %s: %w", groupID, err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return bookings, nil
}

// GroupProjection is the guest-facing read model of a booking group.
type GroupProjection struct {
	BookingGroupID string           `json:"booking_group_id"`
	Status         string           `json:"status"`
	PaymentStatus  string           `json:"payment_status"`
	CheckInDate    datatypes.Date   `json:"check_in_date"`
	CheckOutDate   datatypes.Date   `json:"check_out_date"`
	Guests         int              `json:"guests"`
	TotalPrice     float64          `json:"total_price"`
	Bookings       []models.Booking `json:"bookings"`
}

func projectGroup(groupID string, bookings []models.Booking) GroupProjection {
	status, paymentStatus := AggregateGroupStatus(bookings)
	var total float64
	for _, b := range bookings {
		total += b.TotalPrice
	}
	first := bookings[0]
	return GroupProjection{
		BookingGroupID: groupID,
		Status:         status,
		PaymentStatus:  paymentStatus,
		CheckInDate:    first.CheckInDate,
		CheckOutDate:   first.CheckOutDate,
		Guests:         first.Guests,
		TotalPrice:     total,
		Bookings:       bookings,
	}
}

// ListUserBookings returns the user's bookings grouped by booking
// group, newest group first. Legacy ungrouped rows each become a
// single-booking group under a deterministic virtual id.
func (s *BookingService) ListUserBookings(userID uint) ([]GroupProjection, error) {
	var bookings []models.Booking
	err := s.DB.
		Preload("RoomType").
		Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %d: %w", userID, err)
	}

	grouped := map[string][]models.Booking{}
	var order []string
	for i := range bookings {
		gid := EffectiveGroupID(&bookings[i])
		if _, seen := grouped[gid]; !seen {
			order = append(order, gid)
		}
		grouped[gid] = append(grouped[gid], bookings[i])
	}

	projections := make([]GroupProjection, 0, len(order))
	for _, gid := range order {
		projections = append(projections, projectGroup(gid, grouped[gid]))
	}
	return projections, nil
}

type AdminBookingFilter struct {
	Status        string
	PaymentStatus string
	RoomTypeID    *uint
}

// AdminListBookings lists every booking, ordered by check-in date,
// with optional status / payment / room-type filters.
func (s *BookingService) AdminListBookings(filter AdminBookingFilter) ([]models.Booking, error) {
	query := s.DB.
		Preload("User").
		Preload("RoomType").
		Preload("Room")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.RoomTypeID != nil {
		query = query.Where("room_type_id = ?", *filter.RoomTypeID)
	}

	var bookings []models.Booking
	if err := query.Order("check_in_date, id").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// GetGroupDetail loads a group for the given actor. Non-admin actors
// only see their own groups; a group owned by someone else reads as
// not found rather than leaking its existence.
func (s *BookingService) GetGroupDetail(groupID string, actor *models.User) (*GroupProjection, error) {
	bookings, err := s.groupBookings(groupID, "RoomType", "Room")
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && bookings[0].UserID != actor.ID {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	projection := projectGroup(groupID, bookings)
	return &projection, nil
}

type BookingRef struct {
	BookingID uint   `json:"booking_id"`
	RoomID    *uint  `json:"room_id,omitempty"`
	Status    string `json:"status"`
}

// RoomRequirement describes, for one room type in a group, how many
// rooms are needed versus currently claimable.
type RoomRequirement struct {
	RoomTypeID          uint          `json:"room_type_id"`
	RoomTypeName        string        `json:"room_type_name"`
	RoomTypeDescription string        `json:"room_type_description"`
	RequiredCount       int           `json:"required_count"`
	AssignedCount       int           `json:"assigned_count"`
	AvailableCount      int           `json:"available_count"`
	Sufficient          bool          `json:"sufficient"`
	AvailableRooms      []models.Room `json:"available_rooms"`
	Bookings            []BookingRef  `json:"bookings"`
}

type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckInDetails struct {
	BookingGroupID   string            `json:"booking_group_id"`
	BookingStatus    string            `json:"booking_status"`
	PaymentStatus    string            `json:"payment_status"`
	Guest            GuestInfo         `json:"guest"`
	CheckInDate      datatypes.Date    `json:"check_in_date"`
	CheckOutDate     datatypes.Date    `json:"check_out_date"`
	Guests           int               `json:"guests"`
	Nights           int               `json:"nights"`
	TotalPrice       float64           `json:"total_price"`
	RoomRequirements []RoomRequirement `json:"room_requirements"`
}

// GetCheckInDetails assembles everything the front desk needs to
// check a group in: per-type requirements, claimable rooms of each
// type, sufficiency, and the aggregate group state.
func (s *BookingService) GetCheckInDetails(groupID string) (*CheckInDetails, error) {
	bookings, err := s.groupBookings(groupID, "RoomType", "User")
	if err != nil {
		return nil, err
	}

	requirements, err := s.roomRequirements(bookings, true)
	if err != nil {
		return nil, err
	}

	status, paymentStatus := AggregateGroupStatus(bookings)
	first := bookings[0]
	var total float64
	for _, b := range bookings {
		total += b.TotalPrice
	}

	return &CheckInDetails{
		BookingGroupID: groupID,
		BookingStatus:  status,
		PaymentStatus:  paymentStatus,
		Guest: GuestInfo{
			Name:  first.User.Name,
			Email: first.User.Email,
		},
		CheckInDate:      first.CheckInDate,
		CheckOutDate:     first.CheckOutDate,
		Guests:           first.Guests,
		Nights:           nightsBetween(time.Time(first.CheckInDate), time.Time(first.CheckOutDate)),
		TotalPrice:       total,
		RoomRequirements: requirements,
	}, nil
}

// GetRoomAssignments reports assignment progress per room type for a
// group, without the available-room listings.
func (s *BookingService) GetRoomAssignments(groupID string) ([]RoomRequirement, error) {
	bookings, err := s.groupBookings(groupID, "RoomType")
	if err != nil {
		return nil, err
	}
	return s.roomRequirements(bookings, false)
}

func (s *BookingService) roomRequirements(bookings []models.Booking, withAvailable bool) ([]RoomRequirement, error) {
	byType := map[uint][]models.Booking{}
	var order []uint
	for _, b := range bookings {
		if _, seen := byType[b.RoomTypeID]; !seen {
			order = append(order, b.RoomTypeID)
		}
		byType[b.RoomTypeID] = append(byType[b.RoomTypeID], b)
	}

	requirements := make([]RoomRequirement, 0, len(order))
	for _, typeID := range order {
		typeBookings := byType[typeID]
		rt := typeBookings[0].RoomType

		assigned := 0
		refs := make([]BookingRef, 0, len(typeBookings))
		for _, b := range typeBookings {
			if b.RoomID != nil {
				assigned++
			}
			refs = append(refs, BookingRef{BookingID: b.ID, RoomID: b.RoomID, Status: b.Status})
		}

		req := RoomRequirement{
			RoomTypeID:          typeID,
			RoomTypeName:        rt.Name,
			RoomTypeDescription: rt.Description,
			RequiredCount:       len(typeBookings),
			AssignedCount:       assigned,
			AvailableRooms:      []models.Room{},
			Bookings:            refs,
		}

		if withAvailable {
			var available []models.Room
			err := s.DB.
				Where("room_type_id = ? AND is_available = ?", typeID, true).
				Find(&available).Error
			if err != nil {
				return nil, fmt.Errorf("failed to list available rooms for type %d: %w", typeID, err)
			}
			req.AvailableRooms = available
			req.AvailableCount = len(available)
			req.Sufficient = len(available) >= len(typeBookings)
		}

		requirements = append(requirements, req)
	}
	return requirements, nil
}

// BackfillGroupIDs assigns real group ids to legacy rows, grouping by
// (user, check-in, check-out). This is a heuristic: two unrelated
// same-day bookings by the same guest will be merged.
func (s *BookingService) BackfillGroupIDs() (groups int, updated int, err error) {
	var orphans []models.Booking
	err = s.DB.
		Where("booking_group_id IS NULL OR booking_group_id = ''").
		Order("id").
		Find(&orphans).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load ungrouped bookings: %w", err)
	}
	if len(orphans) == 0 {
		return 0, 0, nil
	}

	byKey := map[string][]uint{}
	var order []string
	for _, b := range orphans {
		key := fmt.Sprintf("%d_%s_%s",
			b.UserID,
			time.Time(b.CheckInDate).Format("2006-01-02"),
			time.Time(b.CheckOutDate).Format("2006-01-02"))
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], b.ID)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, key := range order {
			gid := NewBookingGroupID()
			res := tx.Model(&models.Booking{}).
				Where("id IN ?", byKey[key]).
				Update("booking_group_id", gid)
			if res.Error != nil {
				return fmt.Errorf("failed to backfill group %s: %w", gid, res.Error)
			}
			groups++
			updated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return groups, updated, nil
}
