package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yashrajoria/storefront-service/events"
	"github.com/yashrajoria/storefront-service/gateway"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"
	"github.com/yashrajoria/storefront-service/sender"

	"go.uber.org/zap"
)

// VerifyPaymentRequest is the gateway callback payload.
type VerifyPaymentRequest struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
	PaymentID      string `json:"paymentId" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// PaymentService verifies gateway payment callbacks and transitions
// orders from pending to paid.
type PaymentService interface {
	VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*models.Order, *ServiceError)
}

type paymentServiceImpl struct {
	orderRepo   repository.OrderRepository
	secret      string
	emailSender sender.EmailSender
	publisher   events.Publisher
	currency    string
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService. The secret is the
// gateway integration key the callback signatures are keyed by.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	secret string,
	emailSender sender.EmailSender,
	publisher events.Publisher,
	currency string,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		orderRepo:   orderRepo,
		secret:      secret,
		emailSender: emailSender,
		publisher:   publisher,
		currency:    currency,
		logger:      logger,
	}
}

// VerifyPayment recomputes the callback signature, and on a match
// atomically marks the referenced order paid. The state change is a
// single conditional update, so replayed or concurrent duplicate
// callbacks re-apply the same terminal state without racing.
func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*models.Order, *ServiceError) {
	if req.GatewayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Missing fields"}
	}

	if !gateway.VerifySignature(s.secret, req.GatewayOrderID, req.PaymentID, req.Signature) {
		s.logger.Warn("Payment signature mismatch",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("payment_id", req.PaymentID),
		)
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid signature"}
	}

	order, err := s.orderRepo.FindAndMarkPaid(ctx, req.GatewayOrderID, req.PaymentID, req.Signature)
	if err != nil {
		s.logger.Error("Failed to update order status",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}
	if order == nil {
		// Valid signature for an order this system never created; it
		// must not be silently accepted.
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}

	s.logger.Info("Payment verified",
		zap.String("order_id", order.ID.Hex()),
		zap.String("gateway_order_id", req.GatewayOrderID),
		zap.String("payment_id", req.PaymentID),
	)

	s.sendPaymentEmail(ctx, order)
	s.publishEvent(ctx, order)

	return order, nil
}

// sendPaymentEmail sends the payment confirmation. Best-effort:
// failures are logged and never revert the paid status.
func (s *paymentServiceImpl) sendPaymentEmail(ctx context.Context, order *models.Order) {
	if s.emailSender == nil {
		return
	}

	subject := fmt.Sprintf("Payment successful #%s", order.ID.Hex())
	body := fmt.Sprintf(
		"<h2>Payment successful</h2>"+
			"<p>Hi %s,</p>"+
			"<p>We received your payment for order <b>#%s</b>.</p>"+
			"<p>Amount: ₹%s</p>"+
			"<p>Payment ID: <code>%s</code></p>",
		order.Address.Name, order.ID.Hex(), formatRupees(order.SubtotalPaise), order.GatewayPaymentID,
	)

	if _, err := s.emailSender.SendEmail(ctx, order.Address.Email, subject, body); err != nil {
		s.logger.Warn("Payment email failed",
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
	}
}

func (s *paymentServiceImpl) publishEvent(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.Event{
		Type:      "payment_captured",
		OrderID:   order.ID.Hex(),
		Amount:    order.SubtotalPaise,
		Currency:  s.currency,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Event publish failed",
			zap.String("event_type", "payment_captured"),
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
	}
}
