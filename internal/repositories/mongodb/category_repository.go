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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type categoryRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewCategoryRepository(db *mongo.Database, cache CacheService) interfaces.CategoryRepository {
	return &categoryRepository{
		collection: db.Collection("categories"),
		cache:      cache,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	}

	_, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.invalidateTreeCache(ctx)

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrCategoryNotFound
	}

	r.invalidateTreeCache(ctx)

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrCategoryNotFound
	}

	r.invalidateTreeCache(ctx)

	return nil
}

func (r *categoryRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Category, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"name", "description"})
		if len(searchFilter) > 0 {
			filter = searchFilter
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories, err := decodeCategories(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (r *categoryRepository) GetActive(ctx context.Context) ([]*models.Category, error) {
	// The full active tree is read on nearly every catalog page
	if r.cache != nil {
		var categories []*models.Category
		if err := r.cache.Get(ctx, "categories:active", &categories); err == nil {
			return categories, nil
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories, err := decodeCategories(ctx, cursor)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(ctx, "categories:active", categories, 10*time.Minute)
	}

	return categories, nil
}

func (r *categoryRepository) GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]*models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"parent_id": parentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find child categories: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeCategories(ctx, cursor)
}

func decodeCategories(ctx context.Context, cursor *mongo.Cursor) ([]*models.Category, error) {
	var categories []*models.Category
	for cursor.Next(ctx) {
		var category models.Category
		if err := cursor.Decode(&category); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		categories = append(categories, &category)
	}

	return categories, nil
}

func (r *categoryRepository) invalidateTreeCache(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, "categories:active")
	}
}
