package handlers

import (
	"dentastore/internal/services"
	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetMyNotifications lists the caller's notifications
func (h *NotificationHandler) GetMyNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err, "NOTIFICATION_LIST_FAILED")
		return
	}

	unread, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "NOTIFICATION_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Notifications retrieved successfully", map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	}, meta)
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, notificationID); err != nil {
		handleServiceError(c, err, "NOTIFICATION_READ_FAILED")
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err, "NOTIFICATION_READ_FAILED")
		return
	}

	utils.SuccessResponse(c, "All notifications marked as read", nil)
}

// DeleteNotification removes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), userID, notificationID); err != nil {
		handleServiceError(c, err, "NOTIFICATION_DELETE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Notification deleted successfully", nil)
}
