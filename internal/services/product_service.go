package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"
	"dentastore/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const thumbnailMaxWidth = 320

type ProductService interface {
	CreateProduct(ctx context.Context, request *CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error

	ListProducts(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetProductsOnSale(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	SearchProducts(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Product, int64, error)

	UploadProductImage(ctx context.Context, id primitive.ObjectID, request *UploadImageRequest) (*models.ProductImage, error)
	RemoveProductImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
}

type productService struct {
	productRepo  interfaces.ProductRepository
	categoryRepo interfaces.CategoryRepository
	storage      storage.StorageProvider
	logger       *logger.Logger
}

type CreateProductRequest struct {
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description"`
	Brand       string               `json:"brand"`
	Reference   string               `json:"reference"`
	Price       float64              `json:"price" validate:"required,min=0"`
	SalePrice   float64              `json:"sale_price" validate:"min=0"`
	OnSale      bool                 `json:"on_sale"`
	Stock       int                  `json:"stock" validate:"min=0"`
	CategoryIDs []primitive.ObjectID `json:"category_ids"`
}

type UploadImageRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Data        []byte `json:"-" validate:"required"`
	Alt         string `json:"alt"`
}

func NewProductService(
	productRepo interfaces.ProductRepository,
	categoryRepo interfaces.CategoryRepository,
	storage storage.StorageProvider,
	logger *logger.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		logger:       logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, request *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if request.OnSale && request.SalePrice >= request.Price {
		return nil, fmt.Errorf("sale price must be below the list price")
	}

	for _, categoryID := range request.CategoryIDs {
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:        request.Name,
		Description: request.Description,
		Brand:       request.Brand,
		Reference:   request.Reference,
		Price:       request.Price,
		SalePrice:   request.SalePrice,
		OnSale:      request.OnSale,
		Stock:       request.Stock,
		Status:      models.ProductStatusDraft,
		CategoryIDs: request.CategoryIDs,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.WithError(err).Error("Failed to create product")
		return nil, err
	}

	s.logger.WithField("product_id", product.ID.Hex()).Info("Product created")

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}

func (s *productService) UpdateProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	// Ratings only move through the review service
	delete(updates, "average_rating")
	delete(updates, "review_count")

	if name, ok := updates["name"].(string); ok {
		updates["slug"] = utils.Slugify(name)
	}

	if err := s.productRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

func (s *productService) GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return s.productRepo.GetByCategory(ctx, categoryID, params)
}

func (s *productService) GetProductsOnSale(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return s.productRepo.GetOnSale(ctx, params)
}

func (s *productService) SearchProducts(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return s.productRepo.SearchProducts(ctx, query, params)
}

// UploadProductImage stores the original and a generated thumbnail, then
// attaches both URLs to the product.
func (s *productService) UploadProductImage(ctx context.Context, id primitive.ObjectID, request *UploadImageRequest) (*models.ProductImage, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !utils.IsValidImageFormat(request.FileName) {
		return nil, fmt.Errorf("unsupported image format: %s", path.Ext(request.FileName))
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := path.Ext(request.FileName)
	baseName := fmt.Sprintf("products/%s/%d", id.Hex(), time.Now().UnixNano())

	original, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         baseName + ext,
		Reader:      bytes.NewReader(request.Data),
		ContentType: request.ContentType,
		Size:        int64(len(request.Data)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	img, err := utils.DecodeImage(bytes.NewReader(request.Data), request.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbData, err := utils.MakeThumbnail(img, thumbnailMaxWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail: %w", err)
	}

	thumbnail, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         baseName + "_thumb.jpg",
		Reader:      bytes.NewReader(thumbData),
		ContentType: "image/jpeg",
		Size:        int64(len(thumbData)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	image := models.ProductImage{
		URL:          original.URL,
		ThumbnailURL: thumbnail.URL,
		Alt:          request.Alt,
		Position:     len(product.Images),
	}

	if err := s.productRepo.AddImage(ctx, id, image); err != nil {
		return nil, err
	}

	s.logger.WithField("product_id", id.Hex()).Info("Product image uploaded")

	return &image, nil
}

func (s *productService) RemoveProductImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	if err := s.productRepo.RemoveImage(ctx, id, imageURL); err != nil {
		return err
	}

	s.logger.WithField("product_id", id.Hex()).Info("Product image removed")

	return nil
}
