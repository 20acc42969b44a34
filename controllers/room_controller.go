// controllers/room_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

type roomPayload struct {
	Name        string `json:"name" binding:"required"`
	RoomTypeID  uint   `json:"room_type_id" binding:"required"`
	Description string `json:"description"`
	IsAvailable *bool  `json:"is_available"`
}

func (rc *RoomController) List(c *gin.Context) {
	var filter services.RoomFilter
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(c, http.StatusUnprocessableEntity, "invalid room_type_id parameter")
			return
		}
		typeID := uint(id)
		filter.RoomTypeID = &typeID
	}
	filter.AvailableOnly = c.Query("available") == "true"

	rooms, err := rc.Rooms.List(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Rooms retrieved", rooms)
}

func (rc *RoomController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room retrieved", room)
}

func (rc *RoomController) Create(c *gin.Context) {
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	room := models.Room{
		Name:        payload.Name,
		RoomTypeID:  payload.RoomTypeID,
		Description: payload.Description,
		IsAvailable: true,
	}
	if payload.IsAvailable != nil {
		room.IsAvailable = *payload.IsAvailable
	}
	if err := rc.Rooms.Create(&room); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Room created", room)
}

func (rc *RoomController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	available := true
	if payload.IsAvailable != nil {
		available = *payload.IsAvailable
	}
	room, err := rc.Rooms.Update(id, payload.Name, payload.RoomTypeID, payload.Description, available)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room updated", room)
}

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room deleted", nil)
}

// AvailableByType lists the claimable rooms of one room type.
func (rc *RoomController) AvailableByType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rooms, err := rc.Rooms.AvailableRooms(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Available rooms retrieved", gin.H{
		"room_type_id": id,
		"count":        len(rooms),
		"rooms":        rooms,
	})
}
