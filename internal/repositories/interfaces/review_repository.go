package interfaces

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	GetByProduct(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// Rating aggregation
	GetProductRating(ctx context.Context, productID primitive.ObjectID) (float64, int, error)

	// One review per user per product
	HasUserReviewed(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}
