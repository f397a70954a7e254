package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func hasUniqueIndex(t *testing.T, indexes []mongo.IndexModel, fields ...string) bool {
	t.Helper()

	for _, index := range indexes {
		keys, ok := index.Keys.(bson.D)
		require.True(t, ok, "index keys must be bson.D")

		if len(keys) != len(fields) {
			continue
		}
		match := true
		for i, field := range fields {
			if keys[i].Key != field {
				match = false
				break
			}
		}
		if !match {
			continue
		}

		return index.Options != nil && index.Options.Unique != nil && *index.Options.Unique
	}
	return false
}

func TestMigrationsAreSequential(t *testing.T) {
	migrations := getMigrations()
	require.NotEmpty(t, migrations)

	for i, migration := range migrations {
		assert.Equal(t, i+1, migration.Version, "versions must be contiguous from 1")
		assert.NotEmpty(t, migration.Description)
		assert.NotNil(t, migration.Up)
		assert.NotNil(t, migration.Down)
	}
}

func TestUniquenessConstraints(t *testing.T) {
	assert.True(t, hasUniqueIndex(t, promoCodesIndexes(), "code"),
		"promo code uniqueness backs the duplicate-code conflict")
	assert.True(t, hasUniqueIndex(t, usersIndexes(), "email"))
	assert.True(t, hasUniqueIndex(t, reviewsIndexes(), "product_id", "user_id"),
		"one review per user per product")
	assert.True(t, hasUniqueIndex(t, ordersIndexes(), "order_number"))
	assert.True(t, hasUniqueIndex(t, productsIndexes(), "slug"))
	assert.True(t, hasUniqueIndex(t, categoriesIndexes(), "slug"))
}

func TestUsageCountersAreNotUnique(t *testing.T) {
	// Redemption audit rows repeat (user_id, promotion_id) up to the
	// per-user limit; the lookup indexes must not be unique.
	assert.False(t, hasUniqueIndex(t, userPromotionsIndexes(), "user_id", "promotion_id"))
	assert.False(t, hasUniqueIndex(t, userPromotionsIndexes(), "user_id", "promo_code_id"))
}
