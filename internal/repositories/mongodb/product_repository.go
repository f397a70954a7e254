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

type productRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewProductRepository(db *mongo.Database, cache CacheService) interfaces.ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}
	if product.Status == "" {
		product.Status = models.ProductStatusDraft
	}

	_, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if product := r.getProductFromCache(ctx, id.Hex()); product != nil {
		return product, nil
	}

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	r.cacheProduct(ctx, &product)

	return &product, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by slug: %w", err)
	}

	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProductNotFound
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrProductNotFound
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

// Listing and search
func (r *productRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return r.findProductsWithFilter(ctx, bson.M{}, params)
}

func (r *productRepository) GetByCategory(ctx context.Context, categoryID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	filter := bson.M{
		"category_ids": categoryID,
		"status":       models.ProductStatusPublished,
	}
	return r.findProductsWithFilter(ctx, filter, params)
}

func (r *productRepository) GetByStatus(ctx context.Context, status models.ProductStatus, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return r.findProductsWithFilter(ctx, bson.M{"status": status}, params)
}

func (r *productRepository) GetOnSale(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	filter := bson.M{
		"on_sale": true,
		"status":  models.ProductStatusPublished,
	}
	return r.findProductsWithFilter(ctx, filter, params)
}

func (r *productRepository) SearchProducts(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	params.Search = query
	return r.findProductsWithFilter(ctx, bson.M{"status": models.ProductStatusPublished}, params)
}

// Batch lookup for cart line enrichment
func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, &product)
	}

	return products, nil
}

// Stock and rating maintenance
func (r *productRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"stock": -quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("insufficient stock for product %s", id.Hex())
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProductNotFound
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

func (r *productRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, averageRating float64, reviewCount int) error {
	return r.Update(ctx, id, map[string]interface{}{
		"average_rating": averageRating,
		"review_count":   reviewCount,
	})
}

// Images
func (r *productRepository) AddImage(ctx context.Context, id primitive.ObjectID, image models.ProductImage) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"images": image},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add product image: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProductNotFound
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

func (r *productRepository) RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"images": bson.M{"url": imageURL}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove product image: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProductNotFound
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

// Helpers
func (r *productRepository) findProductsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	if params.Search != "" {
		searchFields := []string{"name", "description", "brand", "reference"}
		searchFilter := params.GetSearchFilter(searchFields)
		if len(searchFilter) > 0 {
			filter = bson.M{
				"$and": []bson.M{filter, searchFilter},
			}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, &product)
	}

	return products, total, nil
}

// Cache operations
func (r *productRepository) cacheProduct(ctx context.Context, product *models.Product) {
	if r.cache != nil && product.Status == models.ProductStatusPublished {
		cacheKey := fmt.Sprintf("product:%s", product.ID.Hex())
		r.cache.Set(ctx, cacheKey, product, 10*time.Minute)
	}
}

func (r *productRepository) getProductFromCache(ctx context.Context, productID string) *models.Product {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("product:%s", productID)
	var product models.Product
	if err := r.cache.Get(ctx, cacheKey, &product); err != nil {
		return nil
	}

	return &product
}

func (r *productRepository) invalidateProductCache(ctx context.Context, productID string) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("product:%s", productID)
		r.cache.Delete(ctx, cacheKey)
	}
}
