// utils/response.go
package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservation/services"
)

// Every endpoint responds with the same envelope:
// {"status": "success"|"partial"|"error", "message": ..., "data": ...}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message, "data": data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": message, "data": data})
}

// Partial reports a batch where some items succeeded and some failed.
func Partial(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusMultiStatus, gin.H{"status": "partial", "message": message, "data": data})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// RespondError maps a service error onto the HTTP status families:
// missing things are 404, state-machine and inventory violations are
// 400, malformed input is 422. Anything unclassified is logged and
// hidden behind a generic 500.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		Error(c, http.StatusForbidden, err.Error())
	case services.IsNotFound(err):
		Error(c, http.StatusNotFound, err.Error())
	case services.IsBusinessRule(err):
		Error(c, http.StatusBadRequest, err.Error())
	case services.IsValidation(err):
		Error(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("internal error: %v", err)
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
