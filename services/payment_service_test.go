package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yashrajoria/storefront-service/events"
	"github.com/yashrajoria/storefront-service/gateway"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/sender"
	"github.com/yashrajoria/storefront-service/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "s3cr3t"

func newTestPaymentService(orderRepo *mockOrderRepo, es sender.EmailSender, pub events.Publisher) services.PaymentService {
	logger, _ := zap.NewDevelopment()
	return services.NewPaymentService(orderRepo, testSecret, es, pub, "INR", logger)
}

// pendingOrder seeds the repo with a pending order for the given
// gateway order reference.
func pendingOrder(repo *mockOrderRepo, gatewayOrderID string) *models.Order {
	order := &models.Order{
		ID:             primitive.NewObjectID(),
		Items:          []models.OrderItem{{ProductID: primitive.NewObjectID().Hex(), Title: "BlackBerry shirt", PricePaise: 500, Qty: 2}},
		Address:        testAddress(),
		SubtotalPaise:  1000,
		GatewayOrderID: gatewayOrderID,
		Status:         models.OrderStatusPending,
	}
	repo.byGateway[gatewayOrderID] = order
	return order
}

func TestVerifyPayment_ValidSignatureMarksPaid(t *testing.T) {
	repo := newMockOrderRepo()
	seeded := pendingOrder(repo, "order_A1")
	svc := newTestPaymentService(repo, nil, nil)

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_B2"),
	}
	order, svcErr := svc.VerifyPayment(context.Background(), req)

	assert.Nil(t, svcErr)
	assert.NotNil(t, order)
	assert.Equal(t, seeded.ID, order.ID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_B2", order.GatewayPaymentID)
	assert.Equal(t, req.Signature, order.GatewaySignature)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	svc := newTestPaymentService(newMockOrderRepo(), nil, nil)

	for _, req := range []*services.VerifyPaymentRequest{
		{PaymentID: "pay_B2", Signature: "sig"},
		{GatewayOrderID: "order_A1", Signature: "sig"},
		{GatewayOrderID: "order_A1", PaymentID: "pay_B2"},
	} {
		_, svcErr := svc.VerifyPayment(context.Background(), req)
		assert.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
	}
}

func TestVerifyPayment_MutatedSignatureRejected(t *testing.T) {
	repo := newMockOrderRepo()
	pendingOrder(repo, "order_A1")
	svc := newTestPaymentService(repo, nil, nil)

	sig := []byte(gateway.Sign(testSecret, "order_A1", "pay_B2"))
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      string(sig),
	}
	_, svcErr := svc.VerifyPayment(context.Background(), req)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	// No state change on mismatch.
	assert.Equal(t, models.OrderStatusPending, repo.byGateway["order_A1"].Status)
}

func TestVerifyPayment_UnknownOrderWithValidSignature(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestPaymentService(repo, nil, nil)

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_UNKNOWN",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_UNKNOWN", "pay_B2"),
	}
	_, svcErr := svc.VerifyPayment(context.Background(), req)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestVerifyPayment_IdempotentReplay(t *testing.T) {
	repo := newMockOrderRepo()
	pendingOrder(repo, "order_A1")
	svc := newTestPaymentService(repo, nil, nil)

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_B2"),
	}

	first, svcErr := svc.VerifyPayment(context.Background(), req)
	assert.Nil(t, svcErr)

	second, svcErr := svc.VerifyPayment(context.Background(), req)
	assert.Nil(t, svcErr)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.OrderStatusPaid, second.Status)
	assert.Equal(t, "pay_B2", second.GatewayPaymentID)
}

func TestVerifyPayment_PaidOrderRejectsDifferentPaymentID(t *testing.T) {
	repo := newMockOrderRepo()
	pendingOrder(repo, "order_A1")
	svc := newTestPaymentService(repo, nil, nil)

	first := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_B2"),
	}
	_, svcErr := svc.VerifyPayment(context.Background(), first)
	assert.Nil(t, svcErr)

	// A second, differently-numbered payment for the same order must
	// not overwrite the recorded payment reference.
	second := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_OTHER",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_OTHER"),
	}
	_, svcErr = svc.VerifyPayment(context.Background(), second)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
	assert.Equal(t, "pay_B2", repo.byGateway["order_A1"].GatewayPaymentID)
}

func TestVerifyPayment_StoreFailure(t *testing.T) {
	repo := newMockOrderRepo()
	repo.markErr = errors.New("store unavailable")
	svc := newTestPaymentService(repo, nil, nil)

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_B2"),
	}
	_, svcErr := svc.VerifyPayment(context.Background(), req)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
}

func TestVerifyPayment_NotifiesAndPublishesBestEffort(t *testing.T) {
	repo := newMockOrderRepo()
	pendingOrder(repo, "order_A1")
	es := &fakeSender{sendErr: errors.New("smtp down")}
	pub := &fakePublisher{}
	svc := newTestPaymentService(repo, es, pub)

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_B2"),
	}
	order, svcErr := svc.VerifyPayment(context.Background(), req)

	// Notification failure never reverts the paid status.
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 1, es.calls)
	if assert.Len(t, pub.events, 1) {
		assert.Equal(t, "payment_captured", pub.events[0].Type)
	}
}

func TestVerifyPayment_EventCarriesConfiguredCurrency(t *testing.T) {
	repo := newMockOrderRepo()
	pendingOrder(repo, "order_A1")
	pub := &fakePublisher{}
	logger, _ := zap.NewDevelopment()
	svc := services.NewPaymentService(repo, testSecret, nil, pub, "USD", logger)

	req := &services.VerifyPaymentRequest{
		GatewayOrderID: "order_A1",
		PaymentID:      "pay_B2",
		Signature:      gateway.Sign(testSecret, "order_A1", "pay_B2"),
	}
	_, svcErr := svc.VerifyPayment(context.Background(), req)

	assert.Nil(t, svcErr)
	if assert.Len(t, pub.events, 1) {
		assert.Equal(t, "USD", pub.events[0].Currency)
	}
}

// End-to-end of the money path: price resolution, pending order,
// signature verification, paid transition.
func TestOrderLifecycle_CreateThenVerify(t *testing.T) {
	p1 := models.Product{ID: primitive.NewObjectID(), Title: "BlackBerry shirt", PricePaise: 500}
	orderRepo := newMockOrderRepo()
	gw := &mockGateway{orderID: "order_FLOW1"}
	orderSvc := newTestOrderService(orderRepo, newCatalog(p1), gw, nil, nil)
	paymentSvc := newTestPaymentService(orderRepo, nil, nil)

	resp, svcErr := orderSvc.CreateOrder(context.Background(), &services.CreateOrderRequest{
		Items:   []services.CreateOrderItem{{ProductID: p1.ID.Hex(), Qty: 2}},
		Address: testAddress(),
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(1000), resp.GatewayOrder.AmountPaise)
	assert.Equal(t, models.OrderStatusPending, orderRepo.created[0].Status)

	order, svcErr := paymentSvc.VerifyPayment(context.Background(), &services.VerifyPaymentRequest{
		GatewayOrderID: "order_FLOW1",
		PaymentID:      "pay_FLOW1",
		Signature:      gateway.Sign(testSecret, "order_FLOW1", "pay_FLOW1"),
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, resp.OrderID, order.ID.Hex())
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(1000), order.SubtotalPaise)
}
