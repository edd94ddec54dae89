package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yashrajoria/storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// CreateOrder handles order creation requests.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Validation failed",
				"fields": fieldErrors(verrs),
			})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetOrderByID returns a single order.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	order, svcErr := oc.orderService.GetOrderByID(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// ListOrders returns all orders, newest first.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	orders, svcErr := oc.orderService.ListOrders(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// fieldErrors flattens validator errors into per-field messages so the
// caller can see exactly which fields failed.
func fieldErrors(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out = append(out, field+" is required")
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "email":
			out = append(out, field+" must be a valid email")
		default:
			out = append(out, field+" is invalid")
		}
	}
	return out
}
