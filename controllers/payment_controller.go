// controllers/payment_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservation/middleware"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

type groupPaymentPayload struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Currency      string  `json:"currency"`
	TransactionID *string `json:"transaction_id"`
	Notes         *string `json:"notes"`
}

// ProcessGroupPayment records one payment for a whole group and marks
// every member booking paid.
func (pc *PaymentController) ProcessGroupPayment(c *gin.Context) {
	var payload groupPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	admin := middleware.CurrentUser(c)
	receipt, err := pc.Payments.ProcessGroupPayment(c.Param("groupId"), services.GroupPaymentInput{
		PaymentMethod: payload.PaymentMethod,
		Currency:      payload.Currency,
		TransactionID: payload.TransactionID,
		Notes:         payload.Notes,
		ProcessedBy:   admin.ID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment processed", receipt)
}

// List returns every recorded payment, newest first.
func (pc *PaymentController) List(c *gin.Context) {
	payments, err := pc.Payments.ListPayments()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payments retrieved", payments)
}
