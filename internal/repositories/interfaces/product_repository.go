package interfaces

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing and search
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetByCategory(ctx context.Context, categoryID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetByStatus(ctx context.Context, status models.ProductStatus, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetOnSale(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	SearchProducts(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Product, int64, error)

	// Batch lookup for cart line enrichment
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error)

	// Stock and rating maintenance
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	UpdateRating(ctx context.Context, id primitive.ObjectID, averageRating float64, reviewCount int) error

	// Images
	AddImage(ctx context.Context, id primitive.ObjectID, image models.ProductImage) error
	RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
}
