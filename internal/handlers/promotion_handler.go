package handlers

import (
	"dentastore/internal/models"
	"dentastore/internal/services"
	"dentastore/internal/utils"
	"dentastore/internal/validators"

	"github.com/gin-gonic/gin"
)

type PromotionHandler struct {
	promotionService services.PromotionService
}

func NewPromotionHandler(promotionService services.PromotionService) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
	}
}

// ApplyPromoCode evaluates a promo code against the caller's cart. A
// rejected code is a successful evaluation with is_valid=false, not an
// HTTP error.
func (h *PromotionHandler) ApplyPromoCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request struct {
		Code      string            `json:"code" validate:"required"`
		CartTotal float64           `json:"cart_total" validate:"min=0"`
		CartItems []models.CartItem `json:"cart_items"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(&request); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	result, err := h.promotionService.ApplyPromoCode(c.Request.Context(), userID, request.Code, request.CartTotal, request.CartItems)
	if err != nil {
		handleServiceError(c, err, "PROMO_EVALUATION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promo code evaluated", result)
}

// CreatePromotion creates a new promotion (admin only)
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var request services.CreatePromotionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if verrs := validators.ValidatePromotionCreate(&request); len(verrs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(verrs))
		return
	}

	promotion, err := h.promotionService.CreatePromotion(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "PROMOTION_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Promotion created successfully", promotion)
}

// GetPromotion retrieves a promotion by id
func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	promotion, err := h.promotionService.GetPromotion(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, "PROMOTION_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promotion retrieved successfully", promotion)
}

// ListPromotions lists promotions with pagination (admin only)
func (h *PromotionHandler) ListPromotions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	promotions, total, err := h.promotionService.ListPromotions(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, "PROMOTION_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Promotions retrieved successfully", map[string]interface{}{
		"promotions": promotions,
	}, meta)
}

// GetActivePromotions lists currently running promotions
func (h *PromotionHandler) GetActivePromotions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	promotions, total, err := h.promotionService.GetActivePromotions(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, "PROMOTION_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Active promotions retrieved successfully", map[string]interface{}{
		"promotions": promotions,
	}, meta)
}

// UpdatePromotion applies a partial update to a promotion (admin only)
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	promotion, err := h.promotionService.UpdatePromotion(c.Request.Context(), id, updates)
	if err != nil {
		handleServiceError(c, err, "PROMOTION_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promotion updated successfully", promotion)
}

// UpdatePromotionStatus transitions a promotion's lifecycle status (admin only)
func (h *PromotionHandler) UpdatePromotionStatus(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Status models.PromotionStatus `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.promotionService.UpdatePromotionStatus(c.Request.Context(), id, request.Status); err != nil {
		handleServiceError(c, err, "PROMOTION_STATUS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promotion status updated successfully", nil)
}

// DeletePromotion removes a promotion (admin only)
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.promotionService.DeletePromotion(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, "PROMOTION_DELETE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promotion deleted successfully", nil)
}

// GetPromotionStats returns usage statistics for a promotion (admin only)
func (h *PromotionHandler) GetPromotionStats(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	stats, err := h.promotionService.GetPromotionStats(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, "PROMOTION_STATS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promotion stats retrieved successfully", stats)
}

// CreatePromoCode attaches a single code to a promotion (admin only)
func (h *PromotionHandler) CreatePromoCode(c *gin.Context) {
	var request services.CreatePromoCodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if verrs := validators.ValidatePromoCodeCreate(&request); len(verrs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(verrs))
		return
	}

	promoCode, err := h.promotionService.CreatePromoCode(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "PROMO_CODE_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Promo code created successfully", promoCode)
}

// GeneratePromoCodes bulk generates random codes for a promotion (admin only)
func (h *PromotionHandler) GeneratePromoCodes(c *gin.Context) {
	var request services.GenerateCodesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if verrs := validators.ValidateCodeGeneration(&request); len(verrs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(verrs))
		return
	}

	codes, err := h.promotionService.GeneratePromoCodes(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "PROMO_CODE_GENERATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Promo codes generated successfully", map[string]interface{}{
		"codes": codes,
		"count": len(codes),
	})
}

// GetPromoCodes lists the codes of a promotion (admin only)
func (h *PromotionHandler) GetPromoCodes(c *gin.Context) {
	promotionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	codes, total, err := h.promotionService.GetPromoCodes(c.Request.Context(), promotionID, params)
	if err != nil {
		handleServiceError(c, err, "PROMO_CODE_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Promo codes retrieved successfully", map[string]interface{}{
		"codes": codes,
	}, meta)
}

// DeactivatePromoCode disables a code without deleting its usage history (admin only)
func (h *PromotionHandler) DeactivatePromoCode(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.promotionService.DeactivatePromoCode(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, "PROMO_CODE_DEACTIVATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Promo code deactivated successfully", nil)
}
