// controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

type registerPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := ac.Users.Register(payload.Name, payload.Email, payload.Password, models.RoleUser)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Registration successful", gin.H{
		"user":  userView(user),
		"token": user.APIToken,
	})
}

// RegisterAdmin is admin-guarded: only an existing admin can mint
// another one.
func (ac *AuthController) RegisterAdmin(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := ac.Users.Register(payload.Name, payload.Email, payload.Password, models.RoleAdmin)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Admin account created", gin.H{
		"user":  userView(user),
		"token": user.APIToken,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := ac.Users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Login successful", gin.H{
		"user":  userView(user),
		"token": user.APIToken,
	})
}
