package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID  primitive.ObjectID `json:"product_id" bson:"product_id" validate:"required"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Rating     int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Title      string             `json:"title" bson:"title"`
	Comment    string             `json:"comment" bson:"comment"`
	IsVerified bool               `json:"is_verified" bson:"is_verified" default:"false"`
	IsPublic   bool               `json:"is_public" bson:"is_public" default:"true"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
