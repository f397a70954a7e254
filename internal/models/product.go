package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	ProductStatusDraft        ProductStatus = "draft"
	ProductStatusPublished    ProductStatus = "published"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

type Product struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name" validate:"required"`
	Slug          string               `json:"slug" bson:"slug"`
	Description   string               `json:"description" bson:"description"`
	Brand         string               `json:"brand" bson:"brand"`
	Reference     string               `json:"reference" bson:"reference"`
	Price         float64              `json:"price" bson:"price" validate:"required,min=0"`
	SalePrice     float64              `json:"sale_price" bson:"sale_price"`
	OnSale        bool                 `json:"on_sale" bson:"on_sale" default:"false"`
	Stock         int                  `json:"stock" bson:"stock" default:"0"`
	Status        ProductStatus        `json:"status" bson:"status" default:"draft"`
	CategoryIDs   []primitive.ObjectID `json:"category_ids" bson:"category_ids"`
	Images        []ProductImage       `json:"images" bson:"images"`
	AverageRating float64              `json:"average_rating" bson:"average_rating"`
	ReviewCount   int                  `json:"review_count" bson:"review_count" default:"0"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

type ProductImage struct {
	URL          string `json:"url" bson:"url"`
	ThumbnailURL string `json:"thumbnail_url" bson:"thumbnail_url"`
	Alt          string `json:"alt" bson:"alt"`
	Position     int    `json:"position" bson:"position"`
}

// EffectivePrice is the unit price a cart line carries: the sale price when
// the product is on sale, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.OnSale && p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}
