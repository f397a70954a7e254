package services

import (
	"testing"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	svc := &orderService{}

	freeShipping := &EvaluationResult{
		IsValid:   true,
		Promotion: &models.Promotion{Type: models.PromotionTypeFreeShipping},
	}
	percentage := &EvaluationResult{
		IsValid:   true,
		Promotion: &models.Promotion{Type: models.PromotionTypePercentage},
	}

	tests := []struct {
		name       string
		subtotal   float64
		evaluation *EvaluationResult
		expected   float64
	}{
		{"small order, no promotion", 50, nil, utils.DefaultShippingCost},
		{"at free shipping threshold", utils.FreeShippingThreshold, nil, 0},
		{"above free shipping threshold", utils.FreeShippingThreshold + 100, nil, 0},
		{"free shipping promotion on small order", 50, freeShipping, 0},
		{"percentage promotion does not waive shipping", 50, percentage, utils.DefaultShippingCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.shippingCost(tt.subtotal, tt.evaluation))
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusConfirmed, models.OrderStatusShipped},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, tt := range allowed {
		assert.True(t, isValidTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	forbidden := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed},
		{models.OrderStatusDelivered, models.OrderStatusShipped},
	}
	for _, tt := range forbidden {
		assert.False(t, isValidTransition(tt.from, tt.to), "%s -> %s should be refused", tt.from, tt.to)
	}
}
