package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionType string
type PromotionStatus string

const (
	PromotionTypePercentage   PromotionType = "percentage"
	PromotionTypeFixedAmount  PromotionType = "fixed_amount"
	PromotionTypeFreeShipping PromotionType = "free_shipping"
	PromotionTypeBuyXGetY     PromotionType = "buy_x_get_y"

	PromotionStatusDraft   PromotionStatus = "draft"
	PromotionStatusActive  PromotionStatus = "active"
	PromotionStatusPaused  PromotionStatus = "paused"
	PromotionStatusExpired PromotionStatus = "expired"
)

type Promotion struct {
	ID                    primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Name                  string                 `json:"name" bson:"name" validate:"required"`
	Description           string                 `json:"description" bson:"description"`
	Type                  PromotionType          `json:"type" bson:"type" validate:"required"`
	Status                PromotionStatus        `json:"status" bson:"status" default:"draft"`
	DiscountValue         float64                `json:"discount_value" bson:"discount_value"`
	MinimumOrderAmount    float64                `json:"minimum_order_amount" bson:"minimum_order_amount"`
	MaximumDiscountAmount float64                `json:"maximum_discount_amount" bson:"maximum_discount_amount"`
	BuyQuantity           int                    `json:"buy_quantity" bson:"buy_quantity"`
	GetQuantity           int                    `json:"get_quantity" bson:"get_quantity"`
	StartDate             time.Time              `json:"start_date" bson:"start_date" validate:"required"`
	EndDate               time.Time              `json:"end_date" bson:"end_date" validate:"required"`
	UsageLimit            int                    `json:"usage_limit" bson:"usage_limit"`
	UsageCount            int                    `json:"usage_count" bson:"usage_count" default:"0"`
	UsageLimitPerUser     int                    `json:"usage_limit_per_user" bson:"usage_limit_per_user"`
	IsStackable           bool                   `json:"is_stackable" bson:"is_stackable" default:"false"`
	ApplyToSale           bool                   `json:"apply_to_sale" bson:"apply_to_sale" default:"true"`
	ProductIDs            []primitive.ObjectID   `json:"product_ids" bson:"product_ids"`
	CategoryIDs           []primitive.ObjectID   `json:"category_ids" bson:"category_ids"`
	Conditions            map[string]interface{} `json:"conditions" bson:"conditions"`
	CreatedAt             time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at" bson:"updated_at"`
}

// IsWithinValidityWindow reports whether t falls inside [StartDate, EndDate].
func (p *Promotion) IsWithinValidityWindow(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// HasRemainingUses reports whether the global usage ceiling still allows a
// redemption. A zero UsageLimit means unlimited.
func (p *Promotion) HasRemainingUses() bool {
	return p.UsageLimit <= 0 || p.UsageCount < p.UsageLimit
}

func (p *Promotion) RestrictsProducts() bool {
	return len(p.ProductIDs) > 0
}

func (p *Promotion) RestrictsCategories() bool {
	return len(p.CategoryIDs) > 0
}
