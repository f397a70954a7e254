package mongodb

import (
	"context"
	"fmt"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type chatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewChatRepository(db *mongo.Database) interfaces.ChatRepository {
	return &chatRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// Conversations
func (r *chatRepository) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	conversation.ID = primitive.NewObjectID()
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = time.Now()

	if conversation.Status == "" {
		conversation.Status = models.ConversationStatusOpen
	}

	_, err := r.conversations.InsertOne(ctx, conversation)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conversation, nil
}

func (r *chatRepository) GetConversationsByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Conversation, int64, error) {
	return r.findConversationsWithFilter(ctx, bson.M{"customer_id": customerID}, params)
}

func (r *chatRepository) GetOpenConversations(ctx context.Context, params *utils.PaginationParams) ([]*models.Conversation, int64, error) {
	return r.findConversationsWithFilter(ctx, bson.M{"status": models.ConversationStatusOpen}, params)
}

func (r *chatRepository) AssignConversation(ctx context.Context, id, assigneeID primitive.ObjectID) error {
	result, err := r.conversations.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"assignee_id": assigneeID,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to assign conversation: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) CloseConversation(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	result, err := r.conversations.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     models.ConversationStatusClosed,
			"closed_at":  now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to close conversation: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrChatNotFound
	}

	return nil
}

// Messages
func (r *chatRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	_, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	// Keep the conversation preview current
	_, err = r.conversations.UpdateOne(
		ctx,
		bson.M{"_id": message.ConversationID},
		bson.M{"$set": bson.M{
			"last_message": message,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation preview: %w", err)
	}

	return nil
}

func (r *chatRepository) GetMessages(ctx context.Context, conversationID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Message, int64, error) {
	filter := bson.M{"conversation_id": conversationID}

	total, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.Message
	for cursor.Next(ctx) {
		var message models.Message
		if err := cursor.Decode(&message); err != nil {
			return nil, 0, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *chatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error {
	_, err := r.messages.UpdateMany(
		ctx,
		bson.M{
			"conversation_id": conversationID,
			"sender_id":       bson.M{"$ne": readerID},
			"read_at":         nil,
		},
		bson.M{"$set": bson.M{"read_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}

func (r *chatRepository) CountUnreadMessages(ctx context.Context, conversationID, readerID primitive.ObjectID) (int64, error) {
	count, err := r.messages.CountDocuments(ctx, bson.M{
		"conversation_id": conversationID,
		"sender_id":       bson.M{"$ne": readerID},
		"read_at":         nil,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

func (r *chatRepository) findConversationsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Conversation, int64, error) {
	total, err := r.conversations.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.conversations.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var conversations []*models.Conversation
	for cursor.Next(ctx) {
		var conversation models.Conversation
		if err := cursor.Decode(&conversation); err != nil {
			return nil, 0, fmt.Errorf("failed to decode conversation: %w", err)
		}
		conversations = append(conversations, &conversation)
	}

	return conversations, total, nil
}
