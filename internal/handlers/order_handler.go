package handlers

import (
	"dentastore/internal/models"
	"dentastore/internal/services"
	"dentastore/internal/utils"
	"dentastore/internal/validators"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder places an order for the authenticated user
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CreateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if verrs := validators.ValidateOrderCreate(&request); len(verrs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(verrs))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err, "ORDER_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Order created successfully", order)
}

// GetOrder retrieves a single order; customers can only see their own
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handleServiceError(c, err, "ORDER_FETCH_FAILED")
		return
	}

	role := currentUserRole(c)
	if role == models.UserRoleCustomer && order.UserID != userID {
		utils.ForbiddenResponse(c)
		return
	}

	utils.SuccessResponse(c, "Order retrieved successfully", order)
}

// GetMyOrders lists the authenticated user's orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.GetUserOrders(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err, "ORDER_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Orders retrieved successfully", map[string]interface{}{
		"orders": orders,
	}, meta)
}

// ListOrders lists all orders (admin only)
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, "ORDER_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Orders retrieved successfully", map[string]interface{}{
		"orders": orders,
	}, meta)
}

// UpdateOrderStatus moves an order through its lifecycle (admin only)
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Status models.OrderStatus `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, request.Status)
	if err != nil {
		handleServiceError(c, err, "ORDER_STATUS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Order status updated successfully", order)
}

// CancelOrder cancels an order; customers can only cancel their own
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handleServiceError(c, err, "ORDER_FETCH_FAILED")
		return
	}

	role := currentUserRole(c)
	if role == models.UserRoleCustomer && order.UserID != userID {
		utils.ForbiddenResponse(c)
		return
	}

	var request struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&request)

	if err := h.orderService.CancelOrder(c.Request.Context(), orderID, request.Reason); err != nil {
		handleServiceError(c, err, "ORDER_CANCEL_FAILED")
		return
	}

	utils.SuccessResponse(c, "Order cancelled successfully", nil)
}
