package handlers

import (
	"dentastore/internal/models"
	"dentastore/internal/services"
	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview posts a review for a product
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err, "REVIEW_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Review created successfully", review)
}

// GetProductReviews lists the reviews of a product
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := pathObjectID(c, "product_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.GetProductReviews(c.Request.Context(), productID, params)
	if err != nil {
		handleServiceError(c, err, "REVIEW_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", map[string]interface{}{
		"reviews": reviews,
	}, meta)
}

// GetMyReviews lists the authenticated user's reviews
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.GetUserReviews(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err, "REVIEW_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", map[string]interface{}{
		"reviews": reviews,
	}, meta)
}

// UpdateReview edits the caller's own review
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), userID, reviewID, &request)
	if err != nil {
		handleServiceError(c, err, "REVIEW_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Review updated successfully", review)
}

// DeleteReview removes a review; admins can remove any review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	isAdmin := currentUserRole(c) == models.UserRoleAdmin

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID, isAdmin); err != nil {
		handleServiceError(c, err, "REVIEW_DELETE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Review deleted successfully", nil)
}
