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

type userPromotionRepository struct {
	collection *mongo.Collection
}

func NewUserPromotionRepository(db *mongo.Database) interfaces.UserPromotionRepository {
	return &userPromotionRepository{
		collection: db.Collection("user_promotions"),
	}
}

func (r *userPromotionRepository) Create(ctx context.Context, usage *models.UserPromotion) error {
	usage.ID = primitive.NewObjectID()
	usage.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, usage)
	if err != nil {
		return fmt.Errorf("failed to record promotion usage: %w", err)
	}

	return nil
}

func (r *userPromotionRepository) CountByUserAndPromotion(ctx context.Context, userID, promotionID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":      userID,
		"promotion_id": promotionID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count user promotion usage: %w", err)
	}

	return count, nil
}

func (r *userPromotionRepository) CountByUserAndCode(ctx context.Context, userID, promoCodeID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":       userID,
		"promo_code_id": promoCodeID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count user promo code usage: %w", err)
	}

	return count, nil
}

func (r *userPromotionRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error) {
	return r.findWithFilter(ctx, bson.M{"user_id": userID}, params)
}

func (r *userPromotionRepository) GetByPromotion(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error) {
	return r.findWithFilter(ctx, bson.M{"promotion_id": promotionID}, params)
}

func (r *userPromotionRepository) findWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count promotion usages: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find promotion usages: %w", err)
	}
	defer cursor.Close(ctx)

	var usages []*models.UserPromotion
	for cursor.Next(ctx) {
		var usage models.UserPromotion
		if err := cursor.Decode(&usage); err != nil {
			return nil, 0, fmt.Errorf("failed to decode promotion usage: %w", err)
		}
		usages = append(usages, &usage)
	}

	return usages, total, nil
}
