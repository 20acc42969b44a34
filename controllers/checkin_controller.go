// controllers/checkin_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservation/middleware"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

// CheckInController hosts the front-desk operations: room assignment,
// check-in, check-out, cancellation, and group maintenance.
type CheckInController struct {
	Bookings *services.BookingService
}

func NewCheckInController(bookings *services.BookingService) *CheckInController {
	return &CheckInController{Bookings: bookings}
}

type paymentInfoPayload struct {
	Status       string   `json:"status"`
	Method       string   `json:"method"`
	Currency     string   `json:"currency"`
	ExchangeRate *float64 `json:"exchange_rate"`
}

func (p *paymentInfoPayload) toUpdate() *services.PaymentUpdate {
	if p == nil || p.Status == "" {
		return nil
	}
	return &services.PaymentUpdate{
		Status:       p.Status,
		Method:       p.Method,
		Currency:     p.Currency,
		ExchangeRate: p.ExchangeRate,
	}
}

func respondOutcome(c *gin.Context, message string, outcome *services.AssignmentOutcome) {
	switch {
	case outcome.AllFailed():
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "no rooms could be assigned",
			"data":    outcome,
		})
	case outcome.Partial():
		utils.Partial(c, message+" with some failures", outcome)
	default:
		utils.Success(c, message, outcome)
	}
}

type assignRoomsPayload struct {
	Assignments []services.RoomAssignment `json:"assignments" binding:"required,min=1,dive"`
	PaymentInfo *paymentInfoPayload       `json:"payment_info"`
}

// AssignRooms processes explicit booking/room pairs.
func (cc *CheckInController) AssignRooms(c *gin.Context) {
	var payload assignRoomsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	outcome, err := cc.Bookings.AssignRoomsToBookings(payload.Assignments, payload.PaymentInfo.toUpdate())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	respondOutcome(c, "Rooms assigned", outcome)
}

type groupCheckInPayload struct {
	RoomAssignments []services.RoomTypeAssignment `json:"room_assignments" binding:"required,min=1,dive"`
	PaymentInfo     *paymentInfoPayload           `json:"payment_info"`
}

// CheckInGroup checks in a group's pending bookings against the
// offered rooms per type.
func (cc *CheckInController) CheckInGroup(c *gin.Context) {
	var payload groupCheckInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	outcome, err := cc.Bookings.CheckInGroup(c.Param("groupId"), payload.RoomAssignments, payload.PaymentInfo.toUpdate())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	respondOutcome(c, "Group checked in", outcome)
}

type assignGroupRoomsPayload struct {
	RoomSelections []services.RoomTypeAssignment `json:"room_selections" binding:"required,min=1,dive"`
	PaymentInfo    *paymentInfoPayload           `json:"payment_info"`
}

// AssignGroupRooms is the strict per-type assignment: each selection
// must cover its type's pending bookings exactly.
func (cc *CheckInController) AssignGroupRooms(c *gin.Context) {
	var payload assignGroupRoomsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	outcome, err := cc.Bookings.AssignRooms(c.Param("groupId"), payload.RoomSelections, payload.PaymentInfo.toUpdate())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	respondOutcome(c, "Rooms assigned", outcome)
}

// CheckInDetails returns everything the front desk needs before
// checking a group in.
func (cc *CheckInController) CheckInDetails(c *gin.Context) {
	details, err := cc.Bookings.GetCheckInDetails(c.Param("groupId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Check-in details retrieved", details)
}

// RoomAssignments reports assignment progress per room type.
func (cc *CheckInController) RoomAssignments(c *gin.Context) {
	assignments, err := cc.Bookings.GetRoomAssignments(c.Param("groupId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room assignments retrieved", gin.H{
		"booking_group_id": c.Param("groupId"),
		"room_types":       assignments,
	})
}

type singleCheckInPayload struct {
	RoomID      uint                `json:"room_id" binding:"required"`
	PaymentInfo *paymentInfoPayload `json:"payment_info"`
}

// CheckInBooking assigns one booking to a room.
func (cc *CheckInController) CheckInBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload singleCheckInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	booking, err := cc.Bookings.CheckInBooking(id, payload.RoomID, payload.PaymentInfo.toUpdate())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Booking checked in", booking)
}

type checkInPaymentPayload struct {
	RoomID   uint    `json:"room_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
}

// ProcessCheckIn records a payment and checks the booking in
// atomically.
func (cc *CheckInController) ProcessCheckIn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload checkInPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	admin := middleware.CurrentUser(c)
	booking, err := cc.Bookings.CheckInWithPayment(id, payload.RoomID, payload.Amount, payload.Currency, admin.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment recorded and booking checked in", booking)
}

// CheckOutBooking completes one booking and frees its room.
func (cc *CheckInController) CheckOutBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := cc.Bookings.CheckOutBooking(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Booking checked out", booking)
}

// CheckOutGroup completes every checked-in booking in a group.
func (cc *CheckInController) CheckOutGroup(c *gin.Context) {
	result, err := cc.Bookings.CheckOutGroup(c.Param("groupId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Group checked out", result)
}

// CancelBooking cancels one booking, releasing its room if assigned.
func (cc *CheckInController) CancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := cc.Bookings.CancelBooking(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Booking cancelled", booking)
}

type groupUpdatePayload struct {
	Status      string              `json:"status"`
	PaymentInfo *paymentInfoPayload `json:"payment_info"`
}

// UpdateGroup applies a status and/or payment change to the whole
// group the booking belongs to.
func (cc *CheckInController) UpdateGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload groupUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := cc.Bookings.UpdateGroupByBooking(id, payload.Status, payload.PaymentInfo.toUpdate())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Booking group updated", result)
}

// DeleteGroup removes a whole booking group.
func (cc *CheckInController) DeleteGroup(c *gin.Context) {
	groupID := c.Param("groupId")
	count, err := cc.Bookings.DeleteGroup(groupID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Booking group deleted", gin.H{
		"booking_group_id": groupID,
		"deleted":          count,
	})
}
