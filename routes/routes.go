package routes

import (
	"github.com/yashrajoria/storefront-service/controllers"
	"github.com/yashrajoria/storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all API routes onto the router.
func RegisterRoutes(
	r *gin.Engine,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
) {
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware())

	api.GET("/products", productController.ListProducts)
	api.POST("/_seed", productController.SeedProducts)

	api.POST("/order/create", orderController.CreateOrder)
	api.GET("/orders", orderController.ListOrders)
	api.GET("/orders/:id", orderController.GetOrderByID)

	api.POST("/payment/verify", paymentController.VerifyPayment)
}
