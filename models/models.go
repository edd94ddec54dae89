package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. The flow only ever moves an order from
// pending to paid; failed/refunded are reserved for later.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Product is a catalog entry. Prices are stored in paise so all
// monetary math stays in integers.
type Product struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	PricePaise int64              `bson:"pricePaise" json:"pricePaise"`
	Img        string             `bson:"img,omitempty" json:"img,omitempty"`
	SKU        string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Stock      int                `bson:"stock" json:"stock"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Address is the shipping/contact record captured with an order.
type Address struct {
	Name    string `bson:"name" json:"name" binding:"required,min=2"`
	Phone   string `bson:"phone" json:"phone" binding:"required,min=8"`
	Email   string `bson:"email" json:"email" binding:"required,email"`
	Line1   string `bson:"line1" json:"line1" binding:"required,min=3"`
	Line2   string `bson:"line2,omitempty" json:"line2,omitempty"`
	City    string `bson:"city" json:"city" binding:"required,min=2"`
	State   string `bson:"state" json:"state" binding:"required,min=2"`
	Pincode string `bson:"pincode" json:"pincode" binding:"required,min=4"`
}

// OrderItem is a snapshot of a catalog row at order time. It is a
// copy, not a reference: later catalog price changes never alter a
// placed order.
type OrderItem struct {
	ProductID  string `bson:"productId" json:"productId"`
	Title      string `bson:"title" json:"title"`
	PricePaise int64  `bson:"pricePaise" json:"pricePaise"`
	Qty        int    `bson:"qty" json:"qty"`
}

// Order is the durable transactional entity. SubtotalPaise always
// equals the sum of its own item snapshots and is never recomputed
// from live catalog data after creation.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Items            []OrderItem        `bson:"items" json:"items"`
	Address          Address            `bson:"address" json:"address"`
	SubtotalPaise    int64              `bson:"subtotalPaise" json:"subtotalPaise"`
	GatewayOrderID   string             `bson:"rp_order_id" json:"rp_order_id"`
	GatewayPaymentID string             `bson:"rp_payment_id,omitempty" json:"rp_payment_id,omitempty"`
	GatewaySignature string             `bson:"rp_signature,omitempty" json:"rp_signature,omitempty"`
	Status           string             `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
