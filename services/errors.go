package services

import "errors"

// Sentinel errors for the service layer. Controllers never match on
// error strings; they classify through the helpers below (one HTTP
// mapping lives in utils.RespondError).
var (
	// Not-found family -> 404.
	ErrBookingNotFound    = errors.New("booking not found")
	ErrGroupNotFound      = errors.New("booking group not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomTypeNotFound   = errors.New("room type not found")
	ErrNoEligibleBookings = errors.New("no eligible bookings found")

	// Business-rule family -> 400.
	ErrInsufficientAvailability = errors.New("not enough rooms available")
	ErrRoomNotAvailable         = errors.New("room is not available")
	ErrRoomTypeMismatch         = errors.New("room type does not match the booking")
	ErrNotConfirmed             = errors.New("only confirmed bookings can be checked in")
	ErrNotCheckedIn             = errors.New("only checked-in bookings can be checked out")
	ErrTerminalStatus           = errors.New("booking is in a terminal status")
	ErrInsufficientPayment      = errors.New("payment amount must cover the full booking price")
	ErrRoomHasActiveBookings    = errors.New("cannot delete room with active bookings")
	ErrRoomTypeInUse            = errors.New("cannot delete room type while rooms reference it")

	// Validation family -> 422.
	ErrValidation           = errors.New("validation failed")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrExchangeRateRequired = errors.New("exchange_rate is required for non-USD currencies")
	ErrDuplicateName        = errors.New("name already exists")

	// Authorization family -> 403 / 401.
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrRoomTypeNotFound) ||
		errors.Is(err, ErrNoEligibleBookings)
}

func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrInsufficientAvailability) ||
		errors.Is(err, ErrRoomNotAvailable) ||
		errors.Is(err, ErrRoomTypeMismatch) ||
		errors.Is(err, ErrNotConfirmed) ||
		errors.Is(err, ErrNotCheckedIn) ||
		errors.Is(err, ErrTerminalStatus) ||
		errors.Is(err, ErrInsufficientPayment) ||
		errors.Is(err, ErrRoomHasActiveBookings) ||
		errors.Is(err, ErrRoomTypeInUse)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnsupportedCurrency) ||
		errors.Is(err, ErrExchangeRateRequired) ||
		errors.Is(err, ErrDuplicateName)
}
