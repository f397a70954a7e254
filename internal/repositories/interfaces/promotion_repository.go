package interfaces

import (
	"context"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, promotion *models.Promotion) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Status operations
	GetActivePromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
	GetByStatus(ctx context.Context, status models.PromotionStatus, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error

	// Usage tracking. IncrementUsage only succeeds while the usage ceiling
	// has headroom; it returns models.ErrPromotionExhausted otherwise.
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
	GetUsageStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error)

	// Type and time-based queries
	GetByType(ctx context.Context, promotionType models.PromotionType, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
	GetExpiredPromotions(ctx context.Context, asOf time.Time) ([]*models.Promotion, error)

	// Search and filtering
	SearchPromotions(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
}
