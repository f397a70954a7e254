package handlers

import (
	"io"
	"net/http"

	"dentastore/internal/services"
	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProduct creates a product (admin only)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var request services.CreateProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "PRODUCT_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Product created successfully", product)
}

// GetProduct retrieves a product by id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, "PRODUCT_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Product retrieved successfully", product)
}

// GetProductBySlug retrieves a product by its URL slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.BadRequestResponse(c, "Slug required")
		return
	}

	product, err := h.productService.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		handleServiceError(c, err, "PRODUCT_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Product retrieved successfully", product)
}

// ListProducts lists products with pagination
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var (
		products interface{}
		total    int64
		err      error
	)

	if query := c.Query("q"); query != "" {
		products, total, err = h.productService.SearchProducts(c.Request.Context(), query, params)
	} else if c.Query("on_sale") == "true" {
		products, total, err = h.productService.GetProductsOnSale(c.Request.Context(), params)
	} else {
		products, total, err = h.productService.ListProducts(c.Request.Context(), params)
	}
	if err != nil {
		handleServiceError(c, err, "PRODUCT_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Products retrieved successfully", map[string]interface{}{
		"products": products,
	}, meta)
}

// GetProductsByCategory lists products in a category
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	categoryID, ok := pathObjectID(c, "category_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	products, total, err := h.productService.GetProductsByCategory(c.Request.Context(), categoryID, params)
	if err != nil {
		handleServiceError(c, err, "PRODUCT_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Products retrieved successfully", map[string]interface{}{
		"products": products,
	}, meta)
}

// UpdateProduct applies a partial update to a product (admin only)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		handleServiceError(c, err, "PRODUCT_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Product updated successfully", product)
}

// DeleteProduct archives a product (admin only)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, "PRODUCT_DELETE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Product deleted successfully", nil)
}

// UploadProductImage uploads a product image as multipart form data (admin only)
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required")
		return
	}
	if fileHeader.Size > utils.MaxImageSize {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "Image exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read image file")
		return
	}

	image, err := h.productService.UploadProductImage(c.Request.Context(), id, &services.UploadImageRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		Alt:         c.PostForm("alt"),
	})
	if err != nil {
		handleServiceError(c, err, "IMAGE_UPLOAD_FAILED")
		return
	}

	utils.CreatedResponse(c, "Image uploaded successfully", image)
}

// RemoveProductImage detaches and deletes a product image (admin only)
func (h *ProductHandler) RemoveProductImage(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		ImageURL string `json:"image_url" validate:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.ImageURL == "" {
		utils.BadRequestResponse(c, "Image URL required")
		return
	}

	if err := h.productService.RemoveProductImage(c.Request.Context(), id, request.ImageURL); err != nil {
		handleServiceError(c, err, "IMAGE_REMOVE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Image removed successfully", nil)
}
