package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPromotionHasRemainingUses(t *testing.T) {
	assert.True(t, (&Promotion{UsageLimit: 0, UsageCount: 500}).HasRemainingUses(), "zero limit means unlimited")
	assert.True(t, (&Promotion{UsageLimit: 10, UsageCount: 9}).HasRemainingUses())
	assert.False(t, (&Promotion{UsageLimit: 10, UsageCount: 10}).HasRemainingUses())
}

func TestPromotionRestrictions(t *testing.T) {
	open := &Promotion{}
	assert.False(t, open.RestrictsProducts())
	assert.False(t, open.RestrictsCategories())

	restricted := &Promotion{
		ProductIDs:  []primitive.ObjectID{primitive.NewObjectID()},
		CategoryIDs: []primitive.ObjectID{primitive.NewObjectID()},
	}
	assert.True(t, restricted.RestrictsProducts())
	assert.True(t, restricted.RestrictsCategories())
}

func TestPromoCodeIsExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&PromoCode{}).IsExpired(now), "nil expiry never expires")

	future := now.Add(time.Hour)
	assert.False(t, (&PromoCode{ExpiresAt: &future}).IsExpired(now))

	past := now.Add(-time.Hour)
	assert.True(t, (&PromoCode{ExpiresAt: &past}).IsExpired(now))
}

func TestPromoCodeHasRemainingUses(t *testing.T) {
	assert.True(t, (&PromoCode{UsageLimit: 0, UsageCount: 3}).HasRemainingUses())
	assert.False(t, (&PromoCode{UsageLimit: 3, UsageCount: 3}).HasRemainingUses())
}
