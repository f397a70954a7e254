package models

import "errors"

// Structural faults surfaced to callers as distinct kinds. Business
// rejections of a promo code are not errors; they come back inside an
// EvaluationResult.
var (
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrPromoCodeNotFound  = errors.New("promo code not found")
	ErrDuplicatePromoCode = errors.New("promo code already exists")
	ErrPromotionExhausted = errors.New("promotion usage limit reached")
	ErrPromoCodeExhausted = errors.New("promo code usage limit reached")

	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrChatNotFound     = errors.New("conversation not found")

	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateReview = errors.New("product already reviewed by user")

	ErrForbidden = errors.New("access denied")
)
