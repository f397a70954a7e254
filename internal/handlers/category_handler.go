package handlers

import (
	"dentastore/internal/services"
	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategory creates a category (admin only)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var request services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "CATEGORY_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Category created successfully", category)
}

// GetCategory retrieves a category by id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, "CATEGORY_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Category retrieved successfully", category)
}

// GetCategoryBySlug retrieves a category by its URL slug
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.BadRequestResponse(c, "Slug required")
		return
	}

	category, err := h.categoryService.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		handleServiceError(c, err, "CATEGORY_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Category retrieved successfully", category)
}

// ListCategories lists all active categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.GetActiveCategories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "CATEGORY_LIST_FAILED")
		return
	}

	utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

// GetChildCategories lists the direct children of a category
func (h *CategoryHandler) GetChildCategories(c *gin.Context) {
	parentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	categories, err := h.categoryService.GetChildCategories(c.Request.Context(), parentID)
	if err != nil {
		handleServiceError(c, err, "CATEGORY_LIST_FAILED")
		return
	}

	utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

// UpdateCategory applies a partial update to a category (admin only)
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, updates)
	if err != nil {
		handleServiceError(c, err, "CATEGORY_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Category updated successfully", category)
}

// DeleteCategory removes a category without children (admin only)
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, "CATEGORY_DELETE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Category deleted successfully", nil)
}
