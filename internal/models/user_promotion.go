package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserPromotion records one successful redemption of a promo code on an
// order. Rows are append-only: they are never mutated after creation and are
// the source of truth for per-user usage counts.
type UserPromotion struct {
	ID             primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID     `json:"user_id" bson:"user_id" validate:"required"`
	PromotionID    primitive.ObjectID     `json:"promotion_id" bson:"promotion_id" validate:"required"`
	PromoCodeID    primitive.ObjectID     `json:"promo_code_id" bson:"promo_code_id" validate:"required"`
	OrderID        primitive.ObjectID     `json:"order_id" bson:"order_id" validate:"required"`
	DiscountAmount float64                `json:"discount_amount" bson:"discount_amount"`
	Conditions     map[string]interface{} `json:"conditions" bson:"conditions"`
	CreatedAt      time.Time              `json:"created_at" bson:"created_at"`
}
