package mongodb

import (
	"context"
	"fmt"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type promotionRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewPromotionRepository(db *mongo.Database, cache CacheService) interfaces.PromotionRepository {
	return &promotionRepository{
		collection: db.Collection("promotions"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *promotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	promotion.ID = primitive.NewObjectID()
	promotion.CreatedAt = time.Now()
	promotion.UpdatedAt = time.Now()

	if promotion.Status == "" {
		promotion.Status = models.PromotionStatusDraft
	}

	_, err := r.collection.InsertOne(ctx, promotion)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	if promotion.Status == models.PromotionStatusActive {
		r.cachePromotion(ctx, promotion)
	}

	return nil
}

func (r *promotionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	if promotion := r.getPromotionFromCache(ctx, id.Hex()); promotion != nil {
		return promotion, nil
	}

	var promotion models.Promotion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&promotion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promotion.Status == models.PromotionStatusActive {
		r.cachePromotion(ctx, &promotion)
	}

	return &promotion, nil
}

func (r *promotionRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrPromotionNotFound
	}

	r.invalidatePromotionCache(ctx, id.Hex())

	return nil
}

func (r *promotionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrPromotionNotFound
	}

	r.invalidatePromotionCache(ctx, id.Hex())

	return nil
}

// Status operations
func (r *promotionRepository) GetActivePromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	now := time.Now()
	filter := bson.M{
		"status":     models.PromotionStatusActive,
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gte": now},
	}
	return r.findPromotionsWithFilter(ctx, filter, params)
}

func (r *promotionRepository) GetByStatus(ctx context.Context, status models.PromotionStatus, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	filter := bson.M{"status": status}
	return r.findPromotionsWithFilter(ctx, filter, params)
}

func (r *promotionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error {
	updates := map[string]interface{}{
		"status": status,
	}
	return r.Update(ctx, id, updates)
}

// Usage tracking

// IncrementUsage bumps usage_count only while it is still below
// usage_limit. The guard lives in the update filter so concurrent
// redemptions cannot push the counter past the ceiling.
func (r *promotionRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
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
		return fmt.Errorf("failed to increment promotion usage: %w", err)
	}
	if result.MatchedCount == 0 {
		// Either the promotion vanished or the ceiling was hit
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("failed to increment promotion usage: %w", countErr)
		}
		if count == 0 {
			return models.ErrPromotionNotFound
		}
		return models.ErrPromotionExhausted
	}

	r.invalidatePromotionCache(ctx, id.Hex())

	return nil
}

func (r *promotionRepository) GetUsageStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error) {
	promotion, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Daily redemptions over the last 30 days
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"promotion_id": id,
			"created_at":   bson.M{"$gte": thirtyDaysAgo},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"date": bson.M{
					"$dateToString": bson.M{
						"format": "%Y-%m-%d",
						"date":   "$created_at",
					},
				},
			},
			"usage_count":    bson.M{"$sum": 1},
			"total_discount": bson.M{"$sum": "$discount_amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.date", Value: 1}}}},
	}

	usageCollection := r.collection.Database().Collection("user_promotions")
	cursor, err := usageCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}
	defer cursor.Close(ctx)

	dailyUsage := make([]map[string]interface{}, 0)
	for cursor.Next(ctx) {
		var result struct {
			ID struct {
				Date string `bson:"date"`
			} `bson:"_id"`
			UsageCount    int64   `bson:"usage_count"`
			TotalDiscount float64 `bson:"total_discount"`
		}

		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode usage stats: %w", err)
		}

		dailyUsage = append(dailyUsage, map[string]interface{}{
			"date":           result.ID.Date,
			"usage_count":    result.UsageCount,
			"total_discount": result.TotalDiscount,
		})
	}

	usageRate := float64(0)
	if promotion.UsageLimit > 0 {
		usageRate = float64(promotion.UsageCount) / float64(promotion.UsageLimit) * 100
	}

	return map[string]interface{}{
		"promotion_id":   id,
		"total_used":     promotion.UsageCount,
		"usage_limit":    promotion.UsageLimit,
		"usage_rate":     usageRate,
		"daily_usage":    dailyUsage,
		"is_active":      promotion.Status == models.PromotionStatusActive,
		"days_remaining": int(time.Until(promotion.EndDate).Hours() / 24),
	}, nil
}

// Type and time-based queries
func (r *promotionRepository) GetByType(ctx context.Context, promotionType models.PromotionType, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	filter := bson.M{"type": promotionType}
	return r.findPromotionsWithFilter(ctx, filter, params)
}

func (r *promotionRepository) GetExpiredPromotions(ctx context.Context, asOf time.Time) ([]*models.Promotion, error) {
	filter := bson.M{
		"status":   bson.M{"$in": []models.PromotionStatus{models.PromotionStatusActive, models.PromotionStatusPaused}},
		"end_date": bson.M{"$lt": asOf},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []*models.Promotion
	for cursor.Next(ctx) {
		var promotion models.Promotion
		if err := cursor.Decode(&promotion); err != nil {
			return nil, fmt.Errorf("failed to decode promotion: %w", err)
		}
		promotions = append(promotions, &promotion)
	}

	return promotions, nil
}

// Search and filtering
func (r *promotionRepository) SearchPromotions(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	params.Search = query
	return r.findPromotionsWithFilter(ctx, bson.M{}, params)
}

// Helper methods
func (r *promotionRepository) findPromotionsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	if params.Search != "" {
		searchFields := []string{"name", "description"}
		searchFilter := params.GetSearchFilter(searchFields)
		if len(searchFilter) > 0 {
			filter = bson.M{
				"$and": []bson.M{filter, searchFilter},
			}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []*models.Promotion
	for cursor.Next(ctx) {
		var promotion models.Promotion
		if err := cursor.Decode(&promotion); err != nil {
			return nil, 0, fmt.Errorf("failed to decode promotion: %w", err)
		}
		promotions = append(promotions, &promotion)
	}

	return promotions, total, nil
}

// Cache operations
func (r *promotionRepository) cachePromotion(ctx context.Context, promotion *models.Promotion) {
	if r.cache != nil && promotion.Status == models.PromotionStatusActive {
		cacheKey := fmt.Sprintf("promotion:%s", promotion.ID.Hex())
		r.cache.Set(ctx, cacheKey, promotion, utils.PromotionCacheTTL)
	}
}

func (r *promotionRepository) getPromotionFromCache(ctx context.Context, promotionID string) *models.Promotion {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("promotion:%s", promotionID)
	var promotion models.Promotion
	err := r.cache.Get(ctx, cacheKey, &promotion)
	if err != nil {
		return nil
	}

	return &promotion
}

func (r *promotionRepository) invalidatePromotionCache(ctx context.Context, promotionID string) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("promotion:%s", promotionID)
		r.cache.Delete(ctx, cacheKey)
	}
}
