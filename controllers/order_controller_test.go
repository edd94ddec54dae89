package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/yashrajoria/storefront-service/controllers"
	"github.com/yashrajoria/storefront-service/gateway"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ---- mock implementing services.OrderService ----

type mockOrderSvc struct {
	resp    *services.CreateOrderResponse
	err     *services.ServiceError
	order   *models.Order
	lastReq *services.CreateOrderRequest
}

func (m *mockOrderSvc) CreateOrder(_ context.Context, req *services.CreateOrderRequest) (*services.CreateOrderResponse, *services.ServiceError) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockOrderSvc) GetOrderByID(_ context.Context, _ string) (*models.Order, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderSvc) ListOrders(_ context.Context) ([]models.Order, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	if m.order == nil {
		return nil, nil
	}
	return []models.Order{*m.order}, nil
}

func setupOrderRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := controllers.NewOrderController(svc)
	r.POST("/api/order/create", c.CreateOrder)
	r.GET("/api/orders/:id", c.GetOrderByID)
	return r
}

func validCreateBody() gin.H {
	return gin.H{
		"items": []gin.H{{"productId": primitive.NewObjectID().Hex(), "qty": 2}},
		"address": gin.H{
			"name":    "Asha Rao",
			"phone":   "9876543210",
			"email":   "asha@example.com",
			"line1":   "12 MG Road",
			"city":    "Bengaluru",
			"state":   "Karnataka",
			"pincode": "560001",
		},
	}
}

// ---- tests ----

func TestCreateOrder_Success(t *testing.T) {
	svc := &mockOrderSvc{
		resp: &services.CreateOrderResponse{
			OrderID:      primitive.NewObjectID().Hex(),
			GatewayOrder: gateway.GatewayOrder{ID: "order_RP1", AmountPaise: 1000, Currency: "INR"},
		},
	}
	r := setupOrderRouter(svc)

	w := postJSON(r, "/api/order/create", validCreateBody())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp services.CreateOrderResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "order_RP1", resp.GatewayOrder.ID)
	assert.Equal(t, int64(1000), resp.GatewayOrder.AmountPaise)
}

func TestCreateOrder_ZeroQuantityRejected(t *testing.T) {
	svc := &mockOrderSvc{}
	r := setupOrderRouter(svc)

	body := validCreateBody()
	body["items"] = []gin.H{{"productId": primitive.NewObjectID().Hex(), "qty": 0}}
	w := postJSON(r, "/api/order/create", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, svc.lastReq)
}

func TestCreateOrder_EmptyItemsRejected(t *testing.T) {
	svc := &mockOrderSvc{}
	r := setupOrderRouter(svc)

	body := validCreateBody()
	body["items"] = []gin.H{}
	w := postJSON(r, "/api/order/create", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, svc.lastReq)
}

func TestCreateOrder_BadAddressReportsFields(t *testing.T) {
	svc := &mockOrderSvc{}
	r := setupOrderRouter(svc)

	body := validCreateBody()
	body["address"] = gin.H{
		"name":  "A",
		"email": "not-an-email",
	}
	w := postJSON(r, "/api/order/create", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	fields, ok := resp["fields"].([]interface{})
	assert.True(t, ok)
	assert.NotEmpty(t, fields)
}

func TestCreateOrder_UpstreamError(t *testing.T) {
	svc := &mockOrderSvc{err: &services.ServiceError{StatusCode: 502, Message: "Payment gateway unavailable"}}
	r := setupOrderRouter(svc)

	w := postJSON(r, "/api/order/create", validCreateBody())

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetOrderByID_Success(t *testing.T) {
	order := &models.Order{ID: primitive.NewObjectID(), Status: models.OrderStatusPending, SubtotalPaise: 1000}
	svc := &mockOrderSvc{order: order}
	r := setupOrderRouter(svc)

	req, _ := http.NewRequest(http.MethodGet, "/api/orders/"+order.ID.Hex(), nil)
	w := do(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	assert.Equal(t, order.ID, got.ID)
}
