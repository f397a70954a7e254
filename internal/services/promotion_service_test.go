package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes. Only the methods the evaluator touches have real
// behavior; the rest satisfy the interfaces.

type fakePromotionRepo struct {
	promotions map[primitive.ObjectID]*models.Promotion
}

func (f *fakePromotionRepo) Create(ctx context.Context, p *models.Promotion) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.promotions[p.ID] = p
	return nil
}

func (f *fakePromotionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	p, ok := f.promotions[id]
	if !ok {
		return nil, models.ErrPromotionNotFound
	}
	return p, nil
}

func (f *fakePromotionRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (f *fakePromotionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.promotions, id)
	return nil
}

func (f *fakePromotionRepo) GetActivePromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return nil, 0, nil
}

func (f *fakePromotionRepo) GetByStatus(ctx context.Context, status models.PromotionStatus, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return nil, 0, nil
}

func (f *fakePromotionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error {
	p, ok := f.promotions[id]
	if !ok {
		return models.ErrPromotionNotFound
	}
	p.Status = status
	return nil
}

func (f *fakePromotionRepo) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	p, ok := f.promotions[id]
	if !ok {
		return models.ErrPromotionNotFound
	}
	if p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit {
		return models.ErrPromotionExhausted
	}
	p.UsageCount++
	return nil
}

func (f *fakePromotionRepo) GetUsageStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (f *fakePromotionRepo) GetByType(ctx context.Context, promotionType models.PromotionType, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return nil, 0, nil
}

func (f *fakePromotionRepo) GetExpiredPromotions(ctx context.Context, asOf time.Time) ([]*models.Promotion, error) {
	var out []*models.Promotion
	for _, p := range f.promotions {
		if p.Status == models.PromotionStatusActive && asOf.After(p.EndDate) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromotionRepo) SearchPromotions(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return nil, 0, nil
}

type fakePromoCodeRepo struct {
	codes map[string]*models.PromoCode
}

func (f *fakePromoCodeRepo) Create(ctx context.Context, c *models.PromoCode) error {
	c.Code = strings.ToUpper(c.Code)
	if _, exists := f.codes[c.Code]; exists {
		return models.ErrDuplicatePromoCode
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.codes[c.Code] = c
	return nil
}

func (f *fakePromoCodeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PromoCode, error) {
	for _, c := range f.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, models.ErrPromoCodeNotFound
}

func (f *fakePromoCodeRepo) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	c, ok := f.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, models.ErrPromoCodeNotFound
	}
	return c, nil
}

func (f *fakePromoCodeRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (f *fakePromoCodeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (f *fakePromoCodeRepo) GetByPromotion(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromoCode, int64, error) {
	return nil, 0, nil
}

func (f *fakePromoCodeRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	for _, c := range f.codes {
		if c.ID == id {
			c.IsActive = false
			return nil
		}
	}
	return models.ErrPromoCodeNotFound
}

func (f *fakePromoCodeRepo) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	for _, c := range f.codes {
		if c.ID == id {
			if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
				return models.ErrPromoCodeExhausted
			}
			c.UsageCount++
			return nil
		}
	}
	return models.ErrPromoCodeNotFound
}

type fakeUserPromotionRepo struct {
	usages []*models.UserPromotion
}

func (f *fakeUserPromotionRepo) Create(ctx context.Context, usage *models.UserPromotion) error {
	if usage.ID.IsZero() {
		usage.ID = primitive.NewObjectID()
	}
	f.usages = append(f.usages, usage)
	return nil
}

func (f *fakeUserPromotionRepo) CountByUserAndPromotion(ctx context.Context, userID, promotionID primitive.ObjectID) (int64, error) {
	var count int64
	for _, u := range f.usages {
		if u.UserID == userID && u.PromotionID == promotionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserPromotionRepo) CountByUserAndCode(ctx context.Context, userID, promoCodeID primitive.ObjectID) (int64, error) {
	var count int64
	for _, u := range f.usages {
		if u.UserID == userID && u.PromoCodeID == promoCodeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserPromotionRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserPromotionRepo) GetByPromotion(ctx context.Context, promotionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserPromotion, int64, error) {
	return nil, 0, nil
}

// Test scaffolding

type promoFixture struct {
	service       *promotionService
	promotionRepo *fakePromotionRepo
	promoCodeRepo *fakePromoCodeRepo
	usageRepo     *fakeUserPromotionRepo
	userID        primitive.ObjectID
}

func newPromoFixture(t *testing.T) *promoFixture {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	promotionRepo := &fakePromotionRepo{promotions: make(map[primitive.ObjectID]*models.Promotion)}
	promoCodeRepo := &fakePromoCodeRepo{codes: make(map[string]*models.PromoCode)}
	usageRepo := &fakeUserPromotionRepo{}

	svc := &promotionService{
		promotionRepo:     promotionRepo,
		promoCodeRepo:     promoCodeRepo,
		userPromotionRepo: usageRepo,
		logger:            log,
	}

	return &promoFixture{
		service:       svc,
		promotionRepo: promotionRepo,
		promoCodeRepo: promoCodeRepo,
		usageRepo:     usageRepo,
		userID:        primitive.NewObjectID(),
	}
}

func (fx *promoFixture) addPromotion(t *testing.T, p *models.Promotion) *models.Promotion {
	t.Helper()
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().Add(-24 * time.Hour)
	}
	if p.EndDate.IsZero() {
		p.EndDate = time.Now().Add(24 * time.Hour)
	}
	if p.Status == "" {
		p.Status = models.PromotionStatusActive
	}
	require.NoError(t, fx.promotionRepo.Create(context.Background(), p))
	return p
}

func (fx *promoFixture) addCode(t *testing.T, code string, promotionID primitive.ObjectID, mutate func(*models.PromoCode)) *models.PromoCode {
	t.Helper()
	c := &models.PromoCode{
		Code:        code,
		PromotionID: promotionID,
		IsActive:    true,
	}
	if mutate != nil {
		mutate(c)
	}
	require.NoError(t, fx.promoCodeRepo.Create(context.Background(), c))
	return c
}

// Evaluation tests

func TestApplyPromoCodeUnknownCode(t *testing.T) {
	fx := newPromoFixture(t)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "NOPE", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgInvalidCode, result.Message)
	assert.Zero(t, result.Discount)
}

func TestApplyPromoCodeInactiveCode(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Soldes", Type: models.PromotionTypePercentage, DiscountValue: 10})
	fx.addCode(t, "SOLDES10", promo.ID, func(c *models.PromoCode) { c.IsActive = false })

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "SOLDES10", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgInvalidCode, result.Message)
}

func TestApplyPromoCodeNotStartedYet(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Rentrée",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(time.Hour),
		EndDate:       time.Now().Add(48 * time.Hour),
	})
	fx.addCode(t, "RENTREE", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "RENTREE", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgPromotionNotStarted, result.Message)
}

func TestApplyPromoCodeEndedPromotion(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Noël",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(-48 * time.Hour),
		EndDate:       time.Now().Add(-time.Hour),
	})
	fx.addCode(t, "NOEL", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "NOEL", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgPromotionEnded, result.Message)
}

func TestApplyPromoCodePausedPromotion(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Pause",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		Status:        models.PromotionStatusPaused,
	})
	fx.addCode(t, "PAUSE", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "PAUSE", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgPromotionNotActive, result.Message)
}

func TestApplyPromoCodeExpiredCode(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Flash", Type: models.PromotionTypePercentage, DiscountValue: 10})
	past := time.Now().Add(-time.Minute)
	fx.addCode(t, "FLASH", promo.ID, func(c *models.PromoCode) { c.ExpiresAt = &past })

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "FLASH", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgCodeExpired, result.Message)
}

func TestApplyPromoCodeExhaustedCode(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Limité", Type: models.PromotionTypePercentage, DiscountValue: 10})
	fx.addCode(t, "LIMITE", promo.ID, func(c *models.PromoCode) {
		c.UsageLimit = 5
		c.UsageCount = 5
	})

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "LIMITE", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgCodeLimitReached, result.Message)
}

func TestApplyPromoCodeExhaustedPromotion(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Epuisé",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		UsageLimit:    100,
		UsageCount:    100,
	})
	fx.addCode(t, "EPUISE", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "EPUISE", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgPromoLimitReached, result.Message)
}

func TestApplyPromoCodePerUserLimit(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:              "Unique",
		Type:              models.PromotionTypePercentage,
		DiscountValue:     10,
		UsageLimitPerUser: 1,
	})
	code := fx.addCode(t, "UNIQUE", promo.ID, nil)

	fx.usageRepo.usages = append(fx.usageRepo.usages, &models.UserPromotion{
		UserID:      fx.userID,
		PromotionID: promo.ID,
		PromoCodeID: code.ID,
	})

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "UNIQUE", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgUserPromoLimit, result.Message)

	// Another user is unaffected
	other, err := fx.service.ApplyPromoCode(context.Background(), primitive.NewObjectID(), "UNIQUE", 100, nil)
	require.NoError(t, err)
	assert.True(t, other.IsValid)
}

func TestApplyPromoCodePerUserCodeLimit(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Nominatif", Type: models.PromotionTypePercentage, DiscountValue: 10})
	code := fx.addCode(t, "NOMINATIF", promo.ID, func(c *models.PromoCode) { c.UsageLimitPerUser = 1 })

	fx.usageRepo.usages = append(fx.usageRepo.usages, &models.UserPromotion{
		UserID:      fx.userID,
		PromotionID: promo.ID,
		PromoCodeID: code.ID,
	})

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "NOMINATIF", 100, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgUserCodeLimit, result.Message)

	// The promotion-level limit is untouched, so a second code under the
	// same promotion still works for this user
	fx.addCode(t, "NOMINATIF2", promo.ID, func(c *models.PromoCode) { c.UsageLimitPerUser = 1 })
	result, err = fx.service.ApplyPromoCode(context.Background(), fx.userID, "NOMINATIF2", 100, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestApplyPromoCodeMinimumOrderAmount(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:               "Mini",
		Type:               models.PromotionTypeFixedAmount,
		DiscountValue:      10,
		MinimumOrderAmount: 50,
	})
	fx.addCode(t, "MINI50", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "MINI50", 40, nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Montant minimum de commande requis: 50€", result.Message)

	// At exactly the threshold the code is accepted
	result, err = fx.service.ApplyPromoCode(context.Background(), fx.userID, "MINI50", 50, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestApplyPromoCodeProductRestriction(t *testing.T) {
	fx := newPromoFixture(t)
	eligibleProduct := primitive.NewObjectID()
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Ciblé",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		ProductIDs:    []primitive.ObjectID{eligibleProduct},
	})
	fx.addCode(t, "CIBLE", promo.ID, nil)

	cart := []models.CartItem{{ProductID: primitive.NewObjectID(), Quantity: 1, UnitPrice: 100}}
	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "CIBLE", 100, cart)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgProductsNotEligible, result.Message)

	cart = append(cart, models.CartItem{ProductID: eligibleProduct, Quantity: 1, UnitPrice: 20})
	result, err = fx.service.ApplyPromoCode(context.Background(), fx.userID, "CIBLE", 120, cart)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestApplyPromoCodeCategoryRestriction(t *testing.T) {
	fx := newPromoFixture(t)
	eligibleCategory := primitive.NewObjectID()
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Catégorie",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		CategoryIDs:   []primitive.ObjectID{eligibleCategory},
	})
	fx.addCode(t, "CATEG", promo.ID, nil)

	cart := []models.CartItem{{
		ProductID:   primitive.NewObjectID(),
		Quantity:    1,
		UnitPrice:   100,
		CategoryIDs: []primitive.ObjectID{primitive.NewObjectID()},
	}}
	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "CATEG", 100, cart)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, MsgCategoryNotEligible, result.Message)

	cart[0].CategoryIDs = []primitive.ObjectID{eligibleCategory}
	result, err = fx.service.ApplyPromoCode(context.Background(), fx.userID, "CATEG", 100, cart)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestApplyPromoCodeCaseAndWhitespaceInsensitive(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Casse", Type: models.PromotionTypeFixedAmount, DiscountValue: 5})
	fx.addCode(t, "CASSE5", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "  casse5 ", 100, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, 5.0, result.Discount)
}

func TestApplyPromoCodeEvaluationIsIdempotent(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Stable", Type: models.PromotionTypePercentage, DiscountValue: 20})
	fx.addCode(t, "STABLE", promo.ID, nil)

	first, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "STABLE", 150, nil)
	require.NoError(t, err)
	second, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "STABLE", 150, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Discount, second.Discount)
	assert.Equal(t, 0, promo.UsageCount)
	assert.Empty(t, fx.usageRepo.usages)
}

// Discount computation tests

func TestComputeDiscountPercentageWithCap(t *testing.T) {
	promo := &models.Promotion{
		Type:                  models.PromotionTypePercentage,
		DiscountValue:         15,
		MaximumDiscountAmount: 30,
	}

	// 15% of 100 = 15, below the cap
	assert.Equal(t, 15.0, computeDiscount(promo, 100, nil))

	// 15% of 200 = 30, at the cap
	assert.Equal(t, 30.0, computeDiscount(promo, 200, nil))

	// 15% of 400 = 60, clamped to 30
	assert.Equal(t, 30.0, computeDiscount(promo, 400, nil))
}

func TestComputeDiscountPercentageNoCap(t *testing.T) {
	promo := &models.Promotion{Type: models.PromotionTypePercentage, DiscountValue: 10}
	assert.Equal(t, 99.99, computeDiscount(promo, 999.9, nil))
}

func TestComputeDiscountFixedAmountNeverExceedsTotal(t *testing.T) {
	promo := &models.Promotion{Type: models.PromotionTypeFixedAmount, DiscountValue: 25}

	assert.Equal(t, 25.0, computeDiscount(promo, 100, nil))
	assert.Equal(t, 10.0, computeDiscount(promo, 10, nil))
}

func TestComputeDiscountFreeShippingIsZero(t *testing.T) {
	promo := &models.Promotion{Type: models.PromotionTypeFreeShipping}
	assert.Equal(t, 0.0, computeDiscount(promo, 500, nil))
}

func TestComputeDiscountBuyTwoGetOne(t *testing.T) {
	promo := &models.Promotion{
		Type:        models.PromotionTypeBuyXGetY,
		BuyQuantity: 2,
		GetQuantity: 1,
	}
	cart := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Quantity: 4, UnitPrice: 10},
		{ProductID: primitive.NewObjectID(), Quantity: 2, UnitPrice: 5},
	}

	// 6 eligible units -> 3 offers -> 3 free units, cheapest first:
	// 2 units at 5 plus 1 unit at 10 = 20
	assert.Equal(t, 20.0, computeDiscount(promo, 50, cart))
}

func TestComputeDiscountBuyXGetYBelowThreshold(t *testing.T) {
	promo := &models.Promotion{
		Type:        models.PromotionTypeBuyXGetY,
		BuyQuantity: 3,
		GetQuantity: 1,
	}
	cart := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Quantity: 2, UnitPrice: 10},
	}

	assert.Equal(t, 0.0, computeDiscount(promo, 20, cart))
}

func TestComputeDiscountBuyXGetYRestrictedProducts(t *testing.T) {
	eligible := primitive.NewObjectID()
	promo := &models.Promotion{
		Type:        models.PromotionTypeBuyXGetY,
		BuyQuantity: 2,
		GetQuantity: 1,
		ProductIDs:  []primitive.ObjectID{eligible},
	}
	cart := []models.CartItem{
		{ProductID: eligible, Quantity: 4, UnitPrice: 8},
		{ProductID: primitive.NewObjectID(), Quantity: 10, UnitPrice: 1},
	}

	// Only the 4 eligible units count: 2 offers -> 2 free units at 8
	assert.Equal(t, 16.0, computeDiscount(promo, 42, cart))
}

func TestApplyPromoCodeSuccessMessage(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Dix", Type: models.PromotionTypeFixedAmount, DiscountValue: 10})
	fx.addCode(t, "DIX", promo.ID, nil)

	result, err := fx.service.ApplyPromoCode(context.Background(), fx.userID, "DIX", 100, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, "Code promo appliqué: -10€", result.Message)
	assert.Equal(t, promo.ID, result.Promotion.ID)
	assert.Equal(t, "DIX", result.PromoCode.Code)
}

// Guarded increment semantics

func TestIncrementUsageStopsAtCeiling(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{
		Name:          "Course",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		UsageLimit:    2,
	})

	ctx := context.Background()
	require.NoError(t, fx.promotionRepo.IncrementUsage(ctx, promo.ID))
	require.NoError(t, fx.promotionRepo.IncrementUsage(ctx, promo.ID))

	err := fx.promotionRepo.IncrementUsage(ctx, promo.ID)
	assert.ErrorIs(t, err, models.ErrPromotionExhausted)
	assert.Equal(t, 2, promo.UsageCount)
}

// Administration tests

func TestCreatePromotionRejectsInvertedDates(t *testing.T) {
	fx := newPromoFixture(t)

	_, err := fx.service.CreatePromotion(context.Background(), &CreatePromotionRequest{
		Name:          "Inversé",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(48 * time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
	})
	assert.Error(t, err)
}

func TestCreatePromotionStartsAsDraft(t *testing.T) {
	fx := newPromoFixture(t)

	promo, err := fx.service.CreatePromotion(context.Background(), &CreatePromotionRequest{
		Name:          "Brouillon",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PromotionStatusDraft, promo.Status)
}

func TestCreatePromotionBuyXGetYRequiresQuantities(t *testing.T) {
	fx := newPromoFixture(t)

	_, err := fx.service.CreatePromotion(context.Background(), &CreatePromotionRequest{
		Name:        "BXGY",
		Type:        models.PromotionTypeBuyXGetY,
		StartDate:   time.Now(),
		EndDate:     time.Now().Add(24 * time.Hour),
		BuyQuantity: 2,
		GetQuantity: 0,
	})
	assert.Error(t, err)
}

func TestGeneratePromoCodesRetriesOnCollision(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Lot", Type: models.PromotionTypePercentage, DiscountValue: 5})

	codes, err := fx.service.GeneratePromoCodes(context.Background(), &GenerateCodesRequest{
		PromotionID: promo.ID,
		Count:       25,
		Prefix:      "DENTAL",
	})
	require.NoError(t, err)
	assert.Len(t, codes, 25)

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.True(t, strings.HasPrefix(code.Code, "DENTAL-"))
		assert.False(t, seen[code.Code], "duplicate code generated: %s", code.Code)
		seen[code.Code] = true
	}
}

func TestExpireOutdatedPromotions(t *testing.T) {
	fx := newPromoFixture(t)
	fx.addPromotion(t, &models.Promotion{
		Name:          "Fini",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(-48 * time.Hour),
		EndDate:       time.Now().Add(-time.Hour),
	})
	current := fx.addPromotion(t, &models.Promotion{
		Name:          "En cours",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 10,
	})

	count, err := fx.service.ExpireOutdatedPromotions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, models.PromotionStatusActive, current.Status)
}

func TestUpdatePromotionStripsUsageCount(t *testing.T) {
	fx := newPromoFixture(t)
	promo := fx.addPromotion(t, &models.Promotion{Name: "Protégé", Type: models.PromotionTypePercentage, DiscountValue: 10})

	updates := map[string]interface{}{
		"name":        "Nouveau nom",
		"usage_count": 9999,
	}
	_, err := fx.service.UpdatePromotion(context.Background(), promo.ID, updates)
	require.NoError(t, err)

	_, hasCounter := updates["usage_count"]
	assert.False(t, hasCounter)
}
