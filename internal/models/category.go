package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name" validate:"required"`
	Slug        string              `json:"slug" bson:"slug"`
	Description string              `json:"description" bson:"description"`
	ParentID    *primitive.ObjectID `json:"parent_id" bson:"parent_id"`
	ImageURL    string              `json:"image_url" bson:"image_url"`
	Position    int                 `json:"position" bson:"position" default:"0"`
	IsActive    bool                `json:"is_active" bson:"is_active" default:"true"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}
