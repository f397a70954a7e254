package interfaces

import (
	"context"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Listing
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Order, int64, error)
	GetByStatus(ctx context.Context, status models.OrderStatus, params *utils.PaginationParams) ([]*models.Order, int64, error)
	GetByDateRange(ctx context.Context, startDate, endDate time.Time, params *utils.PaginationParams) ([]*models.Order, int64, error)

	// State transitions
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, transactionID string) error

	// Delivered orders back review verification
	HasUserPurchasedProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}
