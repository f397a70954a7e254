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

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) interfaces.OrderRepository {
	return &orderRepository{
		collection: db.Collection("orders"),
	}
}

// Basic CRUD operations
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	if order.OrderNumber == "" {
		order.OrderNumber = utils.GenerateOrderNumber()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}

	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}

// Listing
func (r *orderRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return r.findOrdersWithFilter(ctx, bson.M{"user_id": userID}, params)
}

func (r *orderRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return r.findOrdersWithFilter(ctx, bson.M{}, params)
}

func (r *orderRepository) GetByStatus(ctx context.Context, status models.OrderStatus, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return r.findOrdersWithFilter(ctx, bson.M{"status": status}, params)
}

func (r *orderRepository) GetByDateRange(ctx context.Context, startDate, endDate time.Time, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	filter := bson.M{
		"created_at": bson.M{
			"$gte": startDate,
			"$lte": endDate,
		},
	}
	return r.findOrdersWithFilter(ctx, filter, params)
}

// State transitions
func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	updates := map[string]interface{}{
		"status": status,
	}

	now := time.Now()
	switch status {
	case models.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case models.OrderStatusShipped:
		updates["shipped_at"] = now
	case models.OrderStatusDelivered:
		updates["delivered_at"] = now
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	return r.Update(ctx, id, updates)
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, transactionID string) error {
	updates := map[string]interface{}{
		"payment_status": status,
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}

	return r.Update(ctx, id, updates)
}

// HasUserPurchasedProduct reports whether the user has a delivered order
// containing the product. Backs verified review badges.
func (r *orderRepository) HasUserPurchasedProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":          userID,
		"status":           models.OrderStatusDelivered,
		"items.product_id": productID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check purchase history: %w", err)
	}

	return count > 0, nil
}

// Helpers
func (r *orderRepository) findOrdersWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"order_number", "promo_code"})
		if len(searchFilter) > 0 {
			filter = bson.M{
				"$and": []bson.M{filter, searchFilter},
			}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, 0, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, &order)
	}

	return orders, total, nil
}
