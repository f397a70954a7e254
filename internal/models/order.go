package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrderNumber    string              `json:"order_number" bson:"order_number"`
	UserID         primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	Items          []OrderItem         `json:"items" bson:"items" validate:"required,min=1"`
	Subtotal       float64             `json:"subtotal" bson:"subtotal"`
	DiscountAmount float64             `json:"discount_amount" bson:"discount_amount"`
	ShippingCost   float64             `json:"shipping_cost" bson:"shipping_cost"`
	Total          float64             `json:"total" bson:"total"`
	PromotionID    *primitive.ObjectID `json:"promotion_id" bson:"promotion_id"`
	PromoCodeID    *primitive.ObjectID `json:"promo_code_id" bson:"promo_code_id"`
	PromoCode      string              `json:"promo_code" bson:"promo_code"`
	Status         OrderStatus         `json:"status" bson:"status" default:"pending"`
	PaymentStatus  PaymentStatus       `json:"payment_status" bson:"payment_status" default:"pending"`
	TransactionID  string              `json:"transaction_id" bson:"transaction_id"`
	ShippingAddr   *Address            `json:"shipping_address" bson:"shipping_address"`
	BillingAddr    *Address            `json:"billing_address" bson:"billing_address"`
	Notes          string              `json:"notes" bson:"notes"`
	ConfirmedAt    *time.Time          `json:"confirmed_at" bson:"confirmed_at"`
	ShippedAt      *time.Time          `json:"shipped_at" bson:"shipped_at"`
	DeliveredAt    *time.Time          `json:"delivered_at" bson:"delivered_at"`
	CancelledAt    *time.Time          `json:"cancelled_at" bson:"cancelled_at"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

type OrderItem struct {
	ProductID   primitive.ObjectID   `json:"product_id" bson:"product_id" validate:"required"`
	Name        string               `json:"name" bson:"name"`
	Reference   string               `json:"reference" bson:"reference"`
	Quantity    int                  `json:"quantity" bson:"quantity" validate:"required,min=1"`
	UnitPrice   float64              `json:"unit_price" bson:"unit_price"`
	CategoryIDs []primitive.ObjectID `json:"category_ids" bson:"category_ids"`
}
