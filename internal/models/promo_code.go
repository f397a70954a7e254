package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PromoCode is a redeemable code bound to exactly one promotion. It carries
// its own usage accounting, independent of the parent promotion's limits.
type PromoCode struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code              string             `json:"code" bson:"code" validate:"required"`
	PromotionID       primitive.ObjectID `json:"promotion_id" bson:"promotion_id" validate:"required"`
	IsActive          bool               `json:"is_active" bson:"is_active" default:"true"`
	ExpiresAt         *time.Time         `json:"expires_at" bson:"expires_at"`
	UsageLimit        int                `json:"usage_limit" bson:"usage_limit"`
	UsageCount        int                `json:"usage_count" bson:"usage_count" default:"0"`
	UsageLimitPerUser int                `json:"usage_limit_per_user" bson:"usage_limit_per_user"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsExpired reports whether the code's own expiry has passed at t.
// A nil ExpiresAt means the code never expires on its own.
func (c *PromoCode) IsExpired(t time.Time) bool {
	return c.ExpiresAt != nil && t.After(*c.ExpiresAt)
}

// HasRemainingUses reports whether the code-level usage ceiling still allows
// a redemption. A zero UsageLimit means unlimited.
func (c *PromoCode) HasRemainingUses() bool {
	return c.UsageLimit <= 0 || c.UsageCount < c.UsageLimit
}
