// controllers/roomtype_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type RoomTypeController struct {
	RoomTypes *services.RoomTypeService
}

func NewRoomTypeController(roomTypes *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypes: roomTypes}
}

type roomTypePayload struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

func (rc *RoomTypeController) List(c *gin.Context) {
	roomTypes, err := rc.RoomTypes.GetAll()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room types retrieved", roomTypes)
}

func (rc *RoomTypeController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roomType, err := rc.RoomTypes.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room type retrieved", roomType)
}

func (rc *RoomTypeController) Create(c *gin.Context) {
	var payload roomTypePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	roomType := models.RoomType{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
	}
	if err := rc.RoomTypes.Create(&roomType); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Room type created", roomType)
}

func (rc *RoomTypeController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload roomTypePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	roomType, err := rc.RoomTypes.Update(id, payload.Name, payload.Description, payload.Price)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room type updated", roomType)
}

func (rc *RoomTypeController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomTypes.Delete(id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Room type deleted", nil)
}
