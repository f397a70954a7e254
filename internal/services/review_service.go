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

type ReviewService interface {
	CreateReview(ctx context.Context, userID primitive.ObjectID, request *CreateReviewRequest) (*models.Review, error)
	GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetProductReviews(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetUserReviews(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	UpdateReview(ctx context.Context, userID, reviewID primitive.ObjectID, request *UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID, isAdmin bool) error
}

type reviewService struct {
	reviewRepo  interfaces.ReviewRepository
	productRepo interfaces.ProductRepository
	orderRepo   interfaces.OrderRepository
	logger      *logger.Logger
}

type CreateReviewRequest struct {
	ProductID primitive.ObjectID `json:"product_id" validate:"required"`
	Rating    int                `json:"rating" validate:"required,min=1,max=5"`
	Title     string             `json:"title" validate:"max=120"`
	Comment   string             `json:"comment" validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title   *string `json:"title" validate:"omitempty,max=120"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	productRepo interfaces.ProductRepository,
	orderRepo interfaces.OrderRepository,
	logger *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// CreateReview enforces one review per user per product. The review is
// flagged verified when a delivered order of the user contains the product.
func (s *reviewService) CreateReview(ctx context.Context, userID primitive.ObjectID, request *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.productRepo.GetByID(ctx, request.ProductID); err != nil {
		return nil, err
	}

	reviewed, err := s.reviewRepo.HasUserReviewed(ctx, userID, request.ProductID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, models.ErrDuplicateReview
	}

	purchased, err := s.orderRepo.HasUserPurchasedProduct(ctx, userID, request.ProductID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:  request.ProductID,
		UserID:     userID,
		Rating:     request.Rating,
		Title:      request.Title,
		Comment:    request.Comment,
		IsVerified: purchased,
		IsPublic:   true,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.refreshProductRating(ctx, request.ProductID); err != nil {
		s.logger.WithError(err).WithField("product_id", request.ProductID.Hex()).Warn("Failed to refresh product rating")
	}

	s.logger.WithUserID(userID).WithFields(map[string]interface{}{
		"product_id": request.ProductID.Hex(),
		"rating":     request.Rating,
		"verified":   purchased,
	}).Info("Review created")

	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

func (s *reviewService) GetProductReviews(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetByProduct(ctx, productID, params)
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetByUser(ctx, userID, params)
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID primitive.ObjectID, request *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, models.ErrForbidden
	}

	updates := make(map[string]interface{})
	if request.Rating != nil {
		updates["rating"] = *request.Rating
	}
	if request.Title != nil {
		updates["title"] = *request.Title
	}
	if request.Comment != nil {
		updates["comment"] = *request.Comment
	}
	if len(updates) == 0 {
		return review, nil
	}

	if err := s.reviewRepo.Update(ctx, reviewID, updates); err != nil {
		return nil, err
	}

	if request.Rating != nil {
		if err := s.refreshProductRating(ctx, review.ProductID); err != nil {
			s.logger.WithError(err).WithField("product_id", review.ProductID.Hex()).Warn("Failed to refresh product rating")
		}
	}

	return s.reviewRepo.GetByID(ctx, reviewID)
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isAdmin && review.UserID != userID {
		return models.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	if err := s.refreshProductRating(ctx, review.ProductID); err != nil {
		s.logger.WithError(err).WithField("product_id", review.ProductID.Hex()).Warn("Failed to refresh product rating")
	}

	return nil
}

func (s *reviewService) refreshProductRating(ctx context.Context, productID primitive.ObjectID) error {
	average, count, err := s.reviewRepo.GetProductRating(ctx, productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(ctx, productID, average, count)
}
