package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yashrajoria/storefront-service/events"
	"github.com/yashrajoria/storefront-service/gateway"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"
	"github.com/yashrajoria/storefront-service/sender"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// CreateOrderItem is one requested cart line. Quantity must be
// positive; there is intentionally no price field, the catalog is the
// only price source.
type CreateOrderItem struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

// CreateOrderRequest is the create-order boundary payload.
type CreateOrderRequest struct {
	Items   []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
	Address models.Address    `json:"address" binding:"required"`
}

// CreateOrderResponse carries the persisted order id and the gateway
// order handle the client uses to drive the checkout UI.
type CreateOrderResponse struct {
	OrderID      string               `json:"orderId"`
	GatewayOrder gateway.GatewayOrder `json:"gatewayOrder"`
}

// OrderService defines the order-creation and order-read business logic.
type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, *ServiceError)
	GetOrderByID(ctx context.Context, id string) (*models.Order, *ServiceError)
	ListOrders(ctx context.Context) ([]models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateway     gateway.PaymentGateway
	emailSender sender.EmailSender
	publisher   events.Publisher
	currency    string
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. emailSender and
// publisher may be nil; both are best-effort collaborators.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	gw gateway.PaymentGateway,
	emailSender sender.EmailSender,
	publisher events.Publisher,
	currency string,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gw,
		emailSender: emailSender,
		publisher:   publisher,
		currency:    currency,
		logger:      logger,
	}
}

// CreateOrder resolves authoritative prices from the catalog, creates
// a gateway order for the computed subtotal, and persists the order
// snapshot as pending. The gateway call happens before the local
// insert so a gateway failure never leaves an orphan pending order.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "At least one item is required"}
	}

	// Malformed catalog keys fail fast, before any DB access.
	ids := make([]primitive.ObjectID, 0, len(req.Items))
	var invalid []string
	for _, item := range req.Items {
		raw := strings.TrimSpace(item.ProductID)
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		ids = append(ids, oid)
	}
	if len(invalid) > 0 {
		return nil, &ServiceError{
			StatusCode: 400,
			Message:    "Invalid productId format: " + strings.Join(invalid, ", "),
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Catalog lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load products"}
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id.Hex()]; !ok {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, &ServiceError{
			StatusCode: 404,
			Message:    "Product(s) not found: " + strings.Join(missing, ", "),
		}
	}

	// Snapshot title and unit price from the catalog. Client input
	// never contributes to pricing. Duplicate productId lines are kept
	// as independent entries. Lookups go through the parsed ObjectID
	// so casing variations in the raw hex cannot miss the map.
	var subtotal int64
	items := make([]models.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		p := byID[ids[i].Hex()]
		subtotal += p.PricePaise * int64(line.Qty)
		items = append(items, models.OrderItem{
			ProductID:  p.ID.Hex(),
			Title:      p.Title,
			PricePaise: p.PricePaise,
			Qty:        line.Qty,
		})
	}

	receipt := "rcpt_" + uuid.NewString()
	gwOrder, err := s.gateway.CreateOrder(ctx, subtotal, s.currency, receipt)
	if err != nil {
		s.logger.Error("Gateway order creation failed",
			zap.Int64("subtotal_paise", subtotal),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 502, Message: "Payment gateway unavailable"}
	}

	order := &models.Order{
		Items:          items,
		Address:        req.Address,
		SubtotalPaise:  subtotal,
		GatewayOrderID: gwOrder.ID,
		Status:         models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order",
			zap.String("gateway_order_id", gwOrder.ID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save order"}
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("gateway_order_id", gwOrder.ID),
		zap.Int64("subtotal_paise", subtotal),
	)

	s.sendOrderEmail(ctx, order)
	s.publishEvent(ctx, "order_created", order)

	return &CreateOrderResponse{
		OrderID:      order.ID.Hex(),
		GatewayOrder: gwOrder,
	}, nil
}

// GetOrderByID retrieves a single order.
func (s *orderServiceImpl) GetOrderByID(ctx context.Context, id string) (*models.Order, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order id"}
	}

	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// ListOrders retrieves all orders, newest first.
func (s *orderServiceImpl) ListOrders(ctx context.Context) ([]models.Order, *ServiceError) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

// sendOrderEmail sends the order confirmation. Best-effort: failures
// are logged and never affect the created order.
func (s *orderServiceImpl) sendOrderEmail(ctx context.Context, order *models.Order) {
	if s.emailSender == nil {
		return
	}

	subject := fmt.Sprintf("Order received #%s", order.ID.Hex())
	body := fmt.Sprintf(
		"<h2>Thanks, %s!</h2>"+
			"<p>We got your order <b>#%s</b>.</p>"+
			"<p>Amount: ₹%s</p>"+
			"<p>Status: <b>Pending payment</b></p>",
		order.Address.Name, order.ID.Hex(), formatRupees(order.SubtotalPaise),
	)

	if _, err := s.emailSender.SendEmail(ctx, order.Address.Email, subject, body); err != nil {
		s.logger.Warn("Order email failed",
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
	}
}

// publishEvent publishes an order lifecycle event, best-effort.
func (s *orderServiceImpl) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.Event{
		Type:      eventType,
		OrderID:   order.ID.Hex(),
		Amount:    order.SubtotalPaise,
		Currency:  s.currency,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Event publish failed",
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
	}
}

// formatRupees renders a paise amount as rupees without going through
// floating point.
func formatRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
