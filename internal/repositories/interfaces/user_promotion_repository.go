package interfaces

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserPromotionRepository interface {
	// Create appends one redemption record. Rows are never updated or
	// deleted afterwards.
	Create(ctx context.Context, usage *models.UserPromotion) error

	// Per-user usage counts backing the per-user limit checks
	CountByUserAndPromotion(ctx context.Context, userID, promotionID primitive.ObjectID) (int64, error)
	CountByUserAndCode(ctx context.Context, userID, promoCodeID primitive.ObjectID) (int64, error)

	// Listing
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error)
	GetByPromotion(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error)
}
