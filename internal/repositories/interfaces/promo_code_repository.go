package interfaces

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromoCodeRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, code *models.PromoCode) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PromoCode, error)
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	GetByPromotion(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromoCode, int64, error)

	// State transitions
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	// IncrementUsage only succeeds while the code-level usage ceiling has
	// headroom; it returns models.ErrPromoCodeExhausted otherwise.
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
}
