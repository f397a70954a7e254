package interfaces

import (
	"context"

	"dentastore/internal/models"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatRepository interface {
	// Conversations
	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	GetConversation(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	GetConversationsByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Conversation, int64, error)
	GetOpenConversations(ctx context.Context, params *utils.PaginationParams) ([]*models.Conversation, int64, error)
	AssignConversation(ctx context.Context, id, assigneeID primitive.ObjectID) error
	CloseConversation(ctx context.Context, id primitive.ObjectID) error

	// Messages
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessages(ctx context.Context, conversationID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Message, int64, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error
	CountUnreadMessages(ctx context.Context, conversationID, readerID primitive.ObjectID) (int64, error)
}
