package services

import (
	"context"
	"fmt"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"
	"dentastore/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService interface {
	StartConversation(ctx context.Context, customerID primitive.ObjectID, request *StartConversationRequest) (*models.Conversation, error)
	GetConversation(ctx context.Context, userID primitive.ObjectID, userRole models.UserRole, conversationID primitive.ObjectID) (*models.Conversation, error)
	GetCustomerConversations(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Conversation, int64, error)
	GetOpenConversations(ctx context.Context, params *utils.PaginationParams) ([]*models.Conversation, int64, error)
	AssignConversation(ctx context.Context, conversationID, assigneeID primitive.ObjectID) error
	CloseConversation(ctx context.Context, conversationID primitive.ObjectID) error
	SendMessage(ctx context.Context, senderID primitive.ObjectID, senderRole models.UserRole, request *SendMessageRequest) (*models.Message, error)
	GetMessages(ctx context.Context, userID primitive.ObjectID, userRole models.UserRole, conversationID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Message, int64, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error
}

type chatService struct {
	chatRepo            interfaces.ChatRepository
	userRepo            interfaces.UserRepository
	notificationService NotificationService
	wsHandler           *websocket.Handler
	logger              *logger.Logger
}

type StartConversationRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=4000"`
}

type SendMessageRequest struct {
	ConversationID primitive.ObjectID `json:"conversation_id" validate:"required"`
	Content        string             `json:"content" validate:"required,max=4000"`
	AttachmentURL  string             `json:"attachment_url"`
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	userRepo interfaces.UserRepository,
	notificationService NotificationService,
	wsHandler *websocket.Handler,
	logger *logger.Logger,
) ChatService {
	return &chatService{
		chatRepo:            chatRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		wsHandler:           wsHandler,
		logger:              logger,
	}
}

func (s *chatService) StartConversation(ctx context.Context, customerID primitive.ObjectID, request *StartConversationRequest) (*models.Conversation, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	conversation := &models.Conversation{
		CustomerID: customerID,
		Subject:    request.Subject,
		Status:     models.ConversationStatusOpen,
	}
	if err := s.chatRepo.CreateConversation(ctx, conversation); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       customerID,
		SenderRole:     models.UserRoleCustomer,
		Content:        request.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	conversation.LastMessage = message

	if s.wsHandler != nil {
		s.wsHandler.NotifySupport("new_conversation", map[string]interface{}{
			"conversation_id": conversation.ID.Hex(),
			"customer_id":     customerID.Hex(),
			"subject":         conversation.Subject,
		})
	}

	s.logger.WithUserID(customerID).WithField("conversation_id", conversation.ID.Hex()).Info("Conversation started")

	return conversation, nil
}

func (s *chatService) GetConversation(ctx context.Context, userID primitive.ObjectID, userRole models.UserRole, conversationID primitive.ObjectID) (*models.Conversation, error) {
	conversation, err := s.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !canAccessConversation(conversation, userID, userRole) {
		return nil, models.ErrForbidden
	}
	return conversation, nil
}

func (s *chatService) GetCustomerConversations(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Conversation, int64, error) {
	return s.chatRepo.GetConversationsByCustomer(ctx, customerID, params)
}

func (s *chatService) GetOpenConversations(ctx context.Context, params *utils.PaginationParams) ([]*models.Conversation, int64, error) {
	return s.chatRepo.GetOpenConversations(ctx, params)
}

func (s *chatService) AssignConversation(ctx context.Context, conversationID, assigneeID primitive.ObjectID) error {
	assignee, err := s.userRepo.GetByID(ctx, assigneeID)
	if err != nil {
		return err
	}
	if assignee.Role != models.UserRoleSupport && assignee.Role != models.UserRoleAdmin {
		return fmt.Errorf("assignee must be a support user")
	}

	if err := s.chatRepo.AssignConversation(ctx, conversationID, assigneeID); err != nil {
		return err
	}

	if s.wsHandler != nil {
		s.wsHandler.SendConversationUpdate(conversationID, "conversation_assigned", map[string]interface{}{
			"assignee_id": assigneeID.Hex(),
		})
	}

	return nil
}

func (s *chatService) CloseConversation(ctx context.Context, conversationID primitive.ObjectID) error {
	if err := s.chatRepo.CloseConversation(ctx, conversationID); err != nil {
		return err
	}

	if s.wsHandler != nil {
		s.wsHandler.SendConversationUpdate(conversationID, "conversation_closed", nil)
	}

	return nil
}

// SendMessage persists the message and fans it out over the websocket room.
// The customer also gets an offline notification when support replies.
func (s *chatService) SendMessage(ctx context.Context, senderID primitive.ObjectID, senderRole models.UserRole, request *SendMessageRequest) (*models.Message, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	conversation, err := s.chatRepo.GetConversation(ctx, request.ConversationID)
	if err != nil {
		return nil, err
	}
	if !canAccessConversation(conversation, senderID, senderRole) {
		return nil, models.ErrForbidden
	}
	if conversation.Status == models.ConversationStatusClosed {
		return nil, fmt.Errorf("conversation is closed")
	}

	message := &models.Message{
		ConversationID: request.ConversationID,
		SenderID:       senderID,
		SenderRole:     senderRole,
		Content:        request.Content,
		AttachmentURL:  request.AttachmentURL,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.wsHandler != nil {
		s.wsHandler.SendConversationUpdate(request.ConversationID, "chat_message", map[string]interface{}{
			"message_id":  message.ID.Hex(),
			"sender_id":   senderID.Hex(),
			"sender_role": string(senderRole),
			"content":     message.Content,
		})
	}

	if senderRole != models.UserRoleCustomer {
		err := s.notificationService.Notify(ctx, conversation.CustomerID, models.NotificationTypeChatMessage,
			"Nouveau message du support",
			"Vous avez reçu une réponse du support DentaStore.",
			map[string]interface{}{"conversation_id": conversation.ID.Hex()})
		if err != nil {
			s.logger.WithError(err).WithField("conversation_id", conversation.ID.Hex()).Warn("Failed to notify customer")
		}
	}

	return message, nil
}

func (s *chatService) GetMessages(ctx context.Context, userID primitive.ObjectID, userRole models.UserRole, conversationID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Message, int64, error) {
	conversation, err := s.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if !canAccessConversation(conversation, userID, userRole) {
		return nil, 0, models.ErrForbidden
	}

	return s.chatRepo.GetMessages(ctx, conversationID, params)
}

func (s *chatService) MarkMessagesRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error {
	return s.chatRepo.MarkMessagesRead(ctx, conversationID, readerID)
}

func canAccessConversation(conversation *models.Conversation, userID primitive.ObjectID, role models.UserRole) bool {
	if role == models.UserRoleSupport || role == models.UserRoleAdmin {
		return true
	}
	return conversation.CustomerID == userID
}
