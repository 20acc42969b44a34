// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-reservation/middleware"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

type createBookingPayload struct {
	RoomTypeIDs   []uint `json:"room_type_ids" binding:"required,min=1"`
	CheckInDate   string `json:"check_in_date" binding:"required"`
	CheckOutDate  string `json:"check_out_date" binding:"required"`
	Guests        int    `json:"guests" binding:"required,min=1"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Currency      string `json:"currency"`
}

func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, field+" must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return t, true
}

// Create books one or more rooms as a single group.
func (bc *BookingController) Create(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	checkIn, ok := parseDate(c, "check_in_date", payload.CheckInDate)
	if !ok {
		return
	}
	checkOut, ok := parseDate(c, "check_out_date", payload.CheckOutDate)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	summary, err := bc.Bookings.CreateBookingGroup(user.ID, services.CreateGroupInput{
		RoomTypeIDs:   payload.RoomTypeIDs,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        payload.Guests,
		PaymentMethod: payload.PaymentMethod,
		Currency:      payload.Currency,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Booking created", summary)
}

// ListMine returns the caller's bookings grouped by booking group.
func (bc *BookingController) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groups, err := bc.Bookings.ListUserBookings(user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Bookings retrieved", groups)
}

// GroupDetail returns one booking group. Guests only see their own
// groups.
func (bc *BookingController) GroupDetail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	detail, err := bc.Bookings.GetGroupDetail(c.Param("groupId"), user)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Booking group retrieved", detail)
}

// AdminList lists every booking with optional filters.
func (bc *BookingController) AdminList(c *gin.Context) {
	filter := services.AdminBookingFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(c, http.StatusUnprocessableEntity, "invalid room_type_id parameter")
			return
		}
		typeID := uint(id)
		filter.RoomTypeID = &typeID
	}

	bookings, err := bc.Bookings.AdminListBookings(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Bookings retrieved", bookings)
}
