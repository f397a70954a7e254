package services

import (
	"context"
	"fmt"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, request *CreateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	ListCategories(ctx context.Context, params *utils.PaginationParams) ([]*models.Category, int64, error)
	GetActiveCategories(ctx context.Context) ([]*models.Category, error)
	GetChildCategories(ctx context.Context, parentID primitive.ObjectID) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo interfaces.CategoryRepository
	logger       *logger.Logger
}

type CreateCategoryRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	ParentID    *primitive.ObjectID `json:"parent_id"`
	ImageURL    string              `json:"image_url"`
	Position    int                 `json:"position"`
}

func NewCategoryService(categoryRepo interfaces.CategoryRepository, logger *logger.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, request *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if request.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *request.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Name:        request.Name,
		Description: request.Description,
		ParentID:    request.ParentID,
		ImageURL:    request.ImageURL,
		Position:    request.Position,
		IsActive:    true,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.WithError(err).Error("Failed to create category")
		return nil, err
	}

	s.logger.WithField("category_id", category.ID.Hex()).Info("Category created")

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error) {
	if name, ok := updates["name"].(string); ok {
		updates["slug"] = utils.Slugify(name)
	}

	if err := s.categoryRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	children, err := s.categoryRepo.GetChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("cannot delete a category with children")
	}

	return s.categoryRepo.Delete(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context, params *utils.PaginationParams) ([]*models.Category, int64, error) {
	return s.categoryRepo.List(ctx, params)
}

func (s *categoryService) GetActiveCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.GetActive(ctx)
}

func (s *categoryService) GetChildCategories(ctx context.Context, parentID primitive.ObjectID) ([]*models.Category, error) {
	return s.categoryRepo.GetChildren(ctx, parentID)
}
