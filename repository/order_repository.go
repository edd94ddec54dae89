package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yashrajoria/storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindAndMarkPaid(ctx context.Context, gatewayOrderID, paymentID, signature string) (*models.Order, error)
}

// MongoOrderRepository implements OrderRepository on a Mongo collection.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{coll: db.Collection("orders")}
}

// Create inserts a new order and assigns its generated id.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// FindByID retrieves a single order.
func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll retrieves all orders, newest first.
func (r *MongoOrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAndMarkPaid atomically transitions the order matching the given
// gateway order reference to paid, attaching the payment id and
// signature, and returns the updated document. It is a single
// FindOneAndUpdate so concurrent duplicate callbacks cannot interleave
// a read-then-write race.
//
// The filter admits a pending order, or a paid order that already
// carries the same payment id (so replayed callbacks re-apply the same
// terminal state). A paid order is never re-verified onto a different
// payment id. Returns (nil, nil) when no eligible order matched.
func (r *MongoOrderRepository) FindAndMarkPaid(ctx context.Context, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	filter := bson.M{
		"rp_order_id": gatewayOrderID,
		"$or": bson.A{
			bson.M{"status": models.OrderStatusPending},
			bson.M{"status": models.OrderStatusPaid, "rp_payment_id": paymentID},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":        models.OrderStatusPaid,
		"rp_payment_id": paymentID,
		"rp_signature":  signature,
		"updatedAt":     time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
