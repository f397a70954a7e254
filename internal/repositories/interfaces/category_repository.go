package interfaces

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Category, int64, error)
	GetActive(ctx context.Context) ([]*models.Category, error)
	GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]*models.Category, error)
}
