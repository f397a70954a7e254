package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a cart as seen by the promotion evaluator and the
// order service. Category ids are denormalized onto the line so that
// applicability checks do not need extra lookups.
type CartItem struct {
	ProductID   primitive.ObjectID   `json:"product_id" validate:"required"`
	Quantity    int                  `json:"quantity" validate:"required,min=1"`
	UnitPrice   float64              `json:"unit_price" validate:"min=0"`
	CategoryIDs []primitive.ObjectID `json:"category_ids"`
}

// CartSnapshot is the transient cart view supplied by the caller per
// evaluation. It is never persisted by the promotion engine.
type CartSnapshot struct {
	Total float64    `json:"total"`
	Items []CartItem `json:"items"`
}

// Subtotal recomputes the sum of line amounts. Callers normally pass the
// pre-computed Total; this is a consistency helper for the order service.
func (c *CartSnapshot) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += float64(item.Quantity) * item.UnitPrice
	}
	return sum
}
