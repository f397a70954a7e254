package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type promoCodeRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewPromoCodeRepository(db *mongo.Database, cache CacheService) interfaces.PromoCodeRepository {
	return &promoCodeRepository{
		collection: db.Collection("promo_codes"),
		cache:      cache,
	}
}

func (r *promoCodeRepository) Create(ctx context.Context, code *models.PromoCode) error {
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	code.UpdatedAt = time.Now()

	// Codes are stored and matched uppercase
	code.Code = strings.ToUpper(code.Code)

	_, err := r.collection.InsertOne(ctx, code)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicatePromoCode
		}
		return fmt.Errorf("failed to create promo code: %w", err)
	}

	return nil
}

func (r *promoCodeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PromoCode, error) {
	var code models.PromoCode
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&code)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrPromoCodeNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	return &code, nil
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, rawCode string) (*models.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(rawCode))

	cacheKey := fmt.Sprintf("promotion_code_%s", normalized)
	if r.cache != nil {
		var code models.PromoCode
		if err := r.cache.Get(ctx, cacheKey, &code); err == nil {
			return &code, nil
		}
	}

	var code models.PromoCode
	err := r.collection.FindOne(ctx, bson.M{"code": normalized}).Decode(&code)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrPromoCodeNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	if r.cache != nil && code.IsActive {
		r.cache.Set(ctx, cacheKey, code, utils.PromotionCacheTTL)
	}

	return &code, nil
}

func (r *promoCodeRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if code, exists := updates["code"]; exists {
		if codeStr, ok := code.(string); ok {
			updates["code"] = strings.ToUpper(codeStr)
		}
	}

	code, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update promo code: %w", err)
	}

	r.invalidateCodeCache(ctx, code.Code)

	return nil
}

func (r *promoCodeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	code, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}

	r.invalidateCodeCache(ctx, code.Code)

	return nil
}

func (r *promoCodeRepository) GetByPromotion(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromoCode, int64, error) {
	filter := bson.M{"promotion_id": promotionID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count promo codes: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find promo codes: %w", err)
	}
	defer cursor.Close(ctx)

	var codes []*models.PromoCode
	for cursor.Next(ctx) {
		var code models.PromoCode
		if err := cursor.Decode(&code); err != nil {
			return nil, 0, fmt.Errorf("failed to decode promo code: %w", err)
		}
		codes = append(codes, &code)
	}

	return codes, total, nil
}

func (r *promoCodeRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}

// IncrementUsage bumps usage_count only while it is still below
// usage_limit, mirroring the promotion-level guard.
func (r *promoCodeRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id": id,
		"$or": []bson.M{
			{"usage_limit": bson.M{"$lte": 0}},
			{"$expr": bson.M{"$lt": []interface{}{"$usage_count", "$usage_limit"}}},
		},
	}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$inc": bson.M{"usage_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment promo code usage: %w", err)
	}
	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("failed to increment promo code usage: %w", countErr)
		}
		if count == 0 {
			return models.ErrPromoCodeNotFound
		}
		return models.ErrPromoCodeExhausted
	}

	if code, err := r.GetByID(ctx, id); err == nil {
		r.invalidateCodeCache(ctx, code.Code)
	}

	return nil
}

func (r *promoCodeRepository) invalidateCodeCache(ctx context.Context, code string) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("promotion_code_%s", strings.ToUpper(code))
		r.cache.Delete(ctx, cacheKey)
	}
}
