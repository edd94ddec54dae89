package controllers

import (
	"net/http"

	"github.com/yashrajoria/storefront-service/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// VerifyPayment handles the gateway checkout-success callback.
func (pc *PaymentController) VerifyPayment(ctx *gin.Context) {
	var req services.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing fields"})
		return
	}

	order, svcErr := pc.paymentService.VerifyPayment(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"ok": false, "error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "orderId": order.ID.Hex()})
}
