package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/database"
	"dentastore/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// User-facing rejection messages, in the shop's locale.
const (
	MsgInvalidCode         = "Code promo invalide"
	MsgPromotionNotStarted = "Cette promotion n'est pas encore valide"
	MsgPromotionEnded      = "Cette promotion a expiré"
	MsgPromotionNotActive  = "Cette promotion n'est pas active"
	MsgCodeExpired         = "Ce code promo a expiré"
	MsgCodeLimitReached    = "Ce code promo a atteint sa limite d'utilisation"
	MsgPromoLimitReached   = "Cette promotion a atteint sa limite d'utilisation"
	MsgUserPromoLimit      = "Vous avez déjà utilisé cette promotion le nombre maximum de fois"
	MsgUserCodeLimit       = "Vous avez déjà utilisé ce code le nombre maximum de fois"
	MsgProductsNotEligible = "Ce code promo ne s'applique pas aux produits de votre panier"
	MsgCategoryNotEligible = "Ce code promo ne s'applique pas aux catégories de votre panier"
)

type PromotionService interface {
	// Evaluation
	ApplyPromoCode(ctx context.Context, userID primitive.ObjectID, code string, cartTotal float64, cartItems []models.CartItem) (*EvaluationResult, error)

	// Usage recording. Runs inside a Mongo session transaction so both
	// counters and the audit row commit together.
	RecordPromotionUsage(ctx context.Context, request *RecordUsageRequest) error

	// Promotion administration
	CreatePromotion(ctx context.Context, request *CreatePromotionRequest) (*models.Promotion, error)
	GetPromotion(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error)
	UpdatePromotion(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Promotion, error)
	DeletePromotion(ctx context.Context, id primitive.ObjectID) error
	ListPromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
	GetActivePromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
	UpdatePromotionStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error
	GetPromotionStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error)
	ExpireOutdatedPromotions(ctx context.Context) (int, error)

	// Promo code administration
	CreatePromoCode(ctx context.Context, request *CreatePromoCodeRequest) (*models.PromoCode, error)
	GeneratePromoCodes(ctx context.Context, request *GenerateCodesRequest) ([]*models.PromoCode, error)
	GetPromoCodes(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromoCode, int64, error)
	DeactivatePromoCode(ctx context.Context, id primitive.ObjectID) error
}

type promotionService struct {
	promotionRepo     interfaces.PromotionRepository
	promoCodeRepo     interfaces.PromoCodeRepository
	userPromotionRepo interfaces.UserPromotionRepository
	db                *database.MongoDB
	logger            *logger.Logger
}

// EvaluationResult is the outcome of one promo code evaluation. Business
// rejections come back as IsValid=false with a message; they are never Go
// errors.
type EvaluationResult struct {
	IsValid   bool              `json:"is_valid"`
	Discount  float64           `json:"discount"`
	Message   string            `json:"message"`
	Promotion *models.Promotion `json:"promotion,omitempty"`
	PromoCode *models.PromoCode `json:"promo_code,omitempty"`
}

type RecordUsageRequest struct {
	UserID         primitive.ObjectID     `json:"user_id" validate:"required"`
	PromotionID    primitive.ObjectID     `json:"promotion_id" validate:"required"`
	PromoCodeID    primitive.ObjectID     `json:"promo_code_id" validate:"required"`
	OrderID        primitive.ObjectID     `json:"order_id" validate:"required"`
	DiscountAmount float64                `json:"discount_amount"`
	Conditions     map[string]interface{} `json:"conditions"`
}

type CreatePromotionRequest struct {
	Name                  string                 `json:"name" validate:"required"`
	Description           string                 `json:"description"`
	Type                  models.PromotionType   `json:"type" validate:"required,oneof=percentage fixed_amount free_shipping buy_x_get_y"`
	DiscountValue         float64                `json:"discount_value" validate:"min=0"`
	MinimumOrderAmount    float64                `json:"minimum_order_amount" validate:"min=0"`
	MaximumDiscountAmount float64                `json:"maximum_discount_amount" validate:"min=0"`
	BuyQuantity           int                    `json:"buy_quantity" validate:"min=0"`
	GetQuantity           int                    `json:"get_quantity" validate:"min=0"`
	StartDate             time.Time              `json:"start_date" validate:"required"`
	EndDate               time.Time              `json:"end_date" validate:"required"`
	UsageLimit            int                    `json:"usage_limit" validate:"min=0"`
	UsageLimitPerUser     int                    `json:"usage_limit_per_user" validate:"min=0"`
	IsStackable           bool                   `json:"is_stackable"`
	ApplyToSale           bool                   `json:"apply_to_sale"`
	ProductIDs            []primitive.ObjectID   `json:"product_ids"`
	CategoryIDs           []primitive.ObjectID   `json:"category_ids"`
	Conditions            map[string]interface{} `json:"conditions"`
}

type CreatePromoCodeRequest struct {
	Code              string             `json:"code" validate:"required,promo_code"`
	PromotionID       primitive.ObjectID `json:"promotion_id" validate:"required"`
	ExpiresAt         *time.Time         `json:"expires_at"`
	UsageLimit        int                `json:"usage_limit" validate:"min=0"`
	UsageLimitPerUser int                `json:"usage_limit_per_user" validate:"min=0"`
}

type GenerateCodesRequest struct {
	PromotionID       primitive.ObjectID `json:"promotion_id" validate:"required"`
	Count             int                `json:"count" validate:"required,min=1,max=1000"`
	Prefix            string             `json:"prefix"`
	ExpiresAt         *time.Time         `json:"expires_at"`
	UsageLimit        int                `json:"usage_limit" validate:"min=0"`
	UsageLimitPerUser int                `json:"usage_limit_per_user" validate:"min=0"`
}

func NewPromotionService(
	promotionRepo interfaces.PromotionRepository,
	promoCodeRepo interfaces.PromoCodeRepository,
	userPromotionRepo interfaces.UserPromotionRepository,
	db *database.MongoDB,
	logger *logger.Logger,
) PromotionService {
	return &promotionService{
		promotionRepo:     promotionRepo,
		promoCodeRepo:     promoCodeRepo,
		userPromotionRepo: userPromotionRepo,
		db:                db,
		logger:            logger,
	}
}

// Evaluation

// ApplyPromoCode walks the redemption rules in order and fails fast on the
// first violated one. The rules are ordered so the cheapest checks run
// before anything touching the usage history.
func (s *promotionService) ApplyPromoCode(ctx context.Context, userID primitive.ObjectID, code string, cartTotal float64, cartItems []models.CartItem) (*EvaluationResult, error) {
	promoCode, err := s.promoCodeRepo.GetByCode(ctx, code)
	if err != nil {
		if err == models.ErrPromoCodeNotFound {
			return reject(MsgInvalidCode), nil
		}
		return nil, err
	}
	if !promoCode.IsActive {
		return reject(MsgInvalidCode), nil
	}

	promotion, err := s.promotionRepo.GetByID(ctx, promoCode.PromotionID)
	if err != nil {
		if err == models.ErrPromotionNotFound {
			return reject(MsgInvalidCode), nil
		}
		return nil, err
	}

	now := time.Now()

	if now.Before(promotion.StartDate) {
		return reject(MsgPromotionNotStarted), nil
	}
	if now.After(promotion.EndDate) {
		return reject(MsgPromotionEnded), nil
	}

	if promotion.Status != models.PromotionStatusActive {
		return reject(MsgPromotionNotActive), nil
	}

	if promoCode.IsExpired(now) {
		return reject(MsgCodeExpired), nil
	}

	if !promoCode.HasRemainingUses() {
		return reject(MsgCodeLimitReached), nil
	}

	if !promotion.HasRemainingUses() {
		return reject(MsgPromoLimitReached), nil
	}

	if promotion.UsageLimitPerUser > 0 {
		used, err := s.userPromotionRepo.CountByUserAndPromotion(ctx, userID, promotion.ID)
		if err != nil {
			return nil, err
		}
		if used >= int64(promotion.UsageLimitPerUser) {
			return reject(MsgUserPromoLimit), nil
		}
	}

	if promoCode.UsageLimitPerUser > 0 {
		used, err := s.userPromotionRepo.CountByUserAndCode(ctx, userID, promoCode.ID)
		if err != nil {
			return nil, err
		}
		if used >= int64(promoCode.UsageLimitPerUser) {
			return reject(MsgUserCodeLimit), nil
		}
	}

	if promotion.MinimumOrderAmount > 0 && cartTotal < promotion.MinimumOrderAmount {
		return reject(fmt.Sprintf("Montant minimum de commande requis: %s€", utils.FormatAmount(promotion.MinimumOrderAmount))), nil
	}

	if promotion.RestrictsProducts() && !cartHasEligibleProduct(promotion, cartItems) {
		return reject(MsgProductsNotEligible), nil
	}

	if promotion.RestrictsCategories() && !cartHasEligibleCategory(promotion, cartItems) {
		return reject(MsgCategoryNotEligible), nil
	}

	discount := computeDiscount(promotion, cartTotal, cartItems)

	s.logger.WithUserID(userID).WithPromotionID(promotion.ID).WithFields(map[string]interface{}{
		"code":     promoCode.Code,
		"discount": discount,
	}).Info("Promo code applied")

	return &EvaluationResult{
		IsValid:   true,
		Discount:  discount,
		Message:   fmt.Sprintf("Code promo appliqué: -%s€", utils.FormatAmount(discount)),
		Promotion: promotion,
		PromoCode: promoCode,
	}, nil
}

// RecordPromotionUsage commits both usage counters and the audit row in one
// transaction. The guarded increments make concurrent redemptions safe: two
// callers racing for the last use cannot both succeed.
func (s *promotionService) RecordPromotionUsage(ctx context.Context, request *RecordUsageRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := s.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := s.promotionRepo.IncrementUsage(sessCtx, request.PromotionID); err != nil {
			return nil, err
		}

		if err := s.promoCodeRepo.IncrementUsage(sessCtx, request.PromoCodeID); err != nil {
			return nil, err
		}

		usage := &models.UserPromotion{
			UserID:         request.UserID,
			PromotionID:    request.PromotionID,
			PromoCodeID:    request.PromoCodeID,
			OrderID:        request.OrderID,
			DiscountAmount: request.DiscountAmount,
			Conditions:     request.Conditions,
		}
		if err := s.userPromotionRepo.Create(sessCtx, usage); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		s.logger.WithError(err).WithPromotionID(request.PromotionID).Error("Failed to record promotion usage")
		return err
	}

	s.logger.WithUserID(request.UserID).WithPromotionID(request.PromotionID).WithOrderID(request.OrderID).Info("Promotion usage recorded")

	return nil
}

// Discount computation

// computeDiscount is a pure function of the promotion and the cart. All
// results are rounded to 2 decimal places.
func computeDiscount(promotion *models.Promotion, cartTotal float64, cartItems []models.CartItem) float64 {
	var discount float64

	switch promotion.Type {
	case models.PromotionTypePercentage:
		discount = cartTotal * promotion.DiscountValue / 100
		if promotion.MaximumDiscountAmount > 0 && discount > promotion.MaximumDiscountAmount {
			discount = promotion.MaximumDiscountAmount
		}

	case models.PromotionTypeFixedAmount:
		discount = math.Min(promotion.DiscountValue, cartTotal)

	case models.PromotionTypeFreeShipping:
		// The shipping waiver belongs to the order service, which checks
		// promotion.Type itself. The monetary discount here is zero.
		discount = 0

	case models.PromotionTypeBuyXGetY:
		discount = computeBuyXGetYDiscount(promotion, cartItems)
	}

	return utils.RoundCurrency(discount)
}

// computeBuyXGetYDiscount gives away the cheapest eligible units first, so
// the retailer's giveaway is minimized. This allocation order is part of
// the discount contract and must not change.
func computeBuyXGetYDiscount(promotion *models.Promotion, cartItems []models.CartItem) float64 {
	if promotion.BuyQuantity <= 0 || promotion.GetQuantity <= 0 {
		return 0
	}

	eligible := make([]models.CartItem, 0, len(cartItems))
	totalEligibleQty := 0
	for _, item := range cartItems {
		if promotion.RestrictsProducts() && !containsID(promotion.ProductIDs, item.ProductID) {
			continue
		}
		eligible = append(eligible, item)
		totalEligibleQty += item.Quantity
	}

	applicableOffers := totalEligibleQty / promotion.BuyQuantity
	if applicableOffers < 1 {
		return 0
	}

	freeUnits := applicableOffers * promotion.GetQuantity

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].UnitPrice < eligible[j].UnitPrice
	})

	var discount float64
	for _, item := range eligible {
		if freeUnits <= 0 {
			break
		}
		given := item.Quantity
		if given > freeUnits {
			given = freeUnits
		}
		discount += float64(given) * item.UnitPrice
		freeUnits -= given
	}

	return discount
}

func cartHasEligibleProduct(promotion *models.Promotion, cartItems []models.CartItem) bool {
	for _, item := range cartItems {
		if containsID(promotion.ProductIDs, item.ProductID) {
			return true
		}
	}
	return false
}

func cartHasEligibleCategory(promotion *models.Promotion, cartItems []models.CartItem) bool {
	for _, item := range cartItems {
		for _, categoryID := range item.CategoryIDs {
			if containsID(promotion.CategoryIDs, categoryID) {
				return true
			}
		}
	}
	return false
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func reject(message string) *EvaluationResult {
	return &EvaluationResult{
		IsValid:  false,
		Discount: 0,
		Message:  message,
	}
}

// Promotion administration

func (s *promotionService) CreatePromotion(ctx context.Context, request *CreatePromotionRequest) (*models.Promotion, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !request.StartDate.Before(request.EndDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	if request.Type == models.PromotionTypeBuyXGetY && (request.BuyQuantity < 1 || request.GetQuantity < 1) {
		return nil, fmt.Errorf("buy and get quantities must be at least 1")
	}

	promotion := &models.Promotion{
		Name:                  request.Name,
		Description:           request.Description,
		Type:                  request.Type,
		Status:                models.PromotionStatusDraft,
		DiscountValue:         request.DiscountValue,
		MinimumOrderAmount:    request.MinimumOrderAmount,
		MaximumDiscountAmount: request.MaximumDiscountAmount,
		BuyQuantity:           request.BuyQuantity,
		GetQuantity:           request.GetQuantity,
		StartDate:             request.StartDate,
		EndDate:               request.EndDate,
		UsageLimit:            request.UsageLimit,
		UsageLimitPerUser:     request.UsageLimitPerUser,
		IsStackable:           request.IsStackable,
		ApplyToSale:           request.ApplyToSale,
		ProductIDs:            request.ProductIDs,
		CategoryIDs:           request.CategoryIDs,
		Conditions:            request.Conditions,
	}

	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		s.logger.WithError(err).Error("Failed to create promotion")
		return nil, err
	}

	s.logger.WithPromotionID(promotion.ID).WithField("type", promotion.Type).Info("Promotion created")

	return promotion, nil
}

func (s *promotionService) GetPromotion(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	return s.promotionRepo.GetByID(ctx, id)
}

func (s *promotionService) UpdatePromotion(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Promotion, error) {
	// Counters only move through RecordPromotionUsage
	delete(updates, "usage_count")

	if err := s.promotionRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.promotionRepo.GetByID(ctx, id)
}

func (s *promotionService) DeletePromotion(ctx context.Context, id primitive.ObjectID) error {
	return s.promotionRepo.Delete(ctx, id)
}

func (s *promotionService) ListPromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return s.promotionRepo.SearchPromotions(ctx, params.Search, params)
}

func (s *promotionService) GetActivePromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return s.promotionRepo.GetActivePromotions(ctx, params)
}

func (s *promotionService) UpdatePromotionStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error {
	switch status {
	case models.PromotionStatusDraft, models.PromotionStatusActive, models.PromotionStatusPaused, models.PromotionStatusExpired:
	default:
		return fmt.Errorf("invalid promotion status: %s", status)
	}

	if err := s.promotionRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.WithPromotionID(id).WithField("status", status).Info("Promotion status updated")

	return nil
}

func (s *promotionService) GetPromotionStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error) {
	return s.promotionRepo.GetUsageStats(ctx, id)
}

// ExpireOutdatedPromotions flips promotions whose window has closed to
// expired. Meant to run periodically.
func (s *promotionService) ExpireOutdatedPromotions(ctx context.Context) (int, error) {
	outdated, err := s.promotionRepo.GetExpiredPromotions(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, promotion := range outdated {
		if err := s.promotionRepo.UpdateStatus(ctx, promotion.ID, models.PromotionStatusExpired); err != nil {
			s.logger.WithError(err).WithPromotionID(promotion.ID).Error("Failed to expire promotion")
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.WithField("count", expired).Info("Expired outdated promotions")
	}

	return expired, nil
}

// Promo code administration

func (s *promotionService) CreatePromoCode(ctx context.Context, request *CreatePromoCodeRequest) (*models.PromoCode, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// The owning promotion must exist
	if _, err := s.promotionRepo.GetByID(ctx, request.PromotionID); err != nil {
		return nil, err
	}

	code := &models.PromoCode{
		Code:              request.Code,
		PromotionID:       request.PromotionID,
		IsActive:          true,
		ExpiresAt:         request.ExpiresAt,
		UsageLimit:        request.UsageLimit,
		UsageLimitPerUser: request.UsageLimitPerUser,
	}

	if err := s.promoCodeRepo.Create(ctx, code); err != nil {
		return nil, err
	}

	s.logger.WithPromotionID(request.PromotionID).WithField("code", code.Code).Info("Promo code created")

	return code, nil
}

func (s *promotionService) GeneratePromoCodes(ctx context.Context, request *GenerateCodesRequest) ([]*models.PromoCode, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.promotionRepo.GetByID(ctx, request.PromotionID); err != nil {
		return nil, err
	}

	codes := make([]*models.PromoCode, 0, request.Count)
	for i := 0; i < request.Count; i++ {
		code := &models.PromoCode{
			Code:              utils.GeneratePromoCode(request.Prefix, utils.PromoCodeLength),
			PromotionID:       request.PromotionID,
			IsActive:          true,
			ExpiresAt:         request.ExpiresAt,
			UsageLimit:        request.UsageLimit,
			UsageLimitPerUser: request.UsageLimitPerUser,
		}

		err := s.promoCodeRepo.Create(ctx, code)
		if err == models.ErrDuplicatePromoCode {
			// Collision with an existing code; draw again
			i--
			continue
		}
		if err != nil {
			return nil, err
		}

		codes = append(codes, code)
	}

	s.logger.WithPromotionID(request.PromotionID).WithField("count", len(codes)).Info("Promo codes generated")

	return codes, nil
}

func (s *promotionService) GetPromoCodes(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromoCode, int64, error) {
	return s.promoCodeRepo.GetByPromotion(ctx, promotionID, params)
}

func (s *promotionService) DeactivatePromoCode(ctx context.Context, id primitive.ObjectID) error {
	return s.promoCodeRepo.Deactivate(ctx, id)
}
