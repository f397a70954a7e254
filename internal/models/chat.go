package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConversationStatus string

const (
	ConversationStatusOpen   ConversationStatus = "open"
	ConversationStatusClosed ConversationStatus = "closed"
)

// Conversation is a support thread between a customer and the support team.
type Conversation struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	CustomerID  primitive.ObjectID  `json:"customer_id" bson:"customer_id" validate:"required"`
	AssigneeID  *primitive.ObjectID `json:"assignee_id" bson:"assignee_id"`
	Subject     string              `json:"subject" bson:"subject"`
	Status      ConversationStatus  `json:"status" bson:"status" default:"open"`
	LastMessage *Message            `json:"last_message" bson:"last_message"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
	ClosedAt    *time.Time          `json:"closed_at" bson:"closed_at"`
}

type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id" validate:"required"`
	SenderID       primitive.ObjectID `json:"sender_id" bson:"sender_id" validate:"required"`
	SenderRole     UserRole           `json:"sender_role" bson:"sender_role"`
	Content        string             `json:"content" bson:"content" validate:"required"`
	AttachmentURL  string             `json:"attachment_url" bson:"attachment_url"`
	ReadAt         *time.Time         `json:"read_at" bson:"read_at"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
