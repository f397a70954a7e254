package services

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"
	"dentastore/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, message string, data map[string]interface{}) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID primitive.ObjectID) error
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	wsHandler        *websocket.Handler
	logger           *logger.Logger
}

func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	wsHandler *websocket.Handler,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		wsHandler:        wsHandler,
		logger:           logger,
	}
}

// Notify persists the notification and pushes it to the user's websocket
// room when they are connected. Delivery over the socket is best effort.
func (s *notificationService) Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, message string, data map[string]interface{}) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Status:  models.NotificationStatusUnread,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	if s.wsHandler != nil {
		s.wsHandler.SendUserNotification(userID, string(notificationType), map[string]interface{}{
			"id":      notification.ID.Hex(),
			"title":   title,
			"message": message,
			"data":    data,
		})
	}

	return nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.notificationRepo.GetByUser(ctx, userID, params)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.ErrForbidden
	}

	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *notificationService) DeleteNotification(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.ErrForbidden
	}

	return s.notificationRepo.Delete(ctx, notificationID)
}
