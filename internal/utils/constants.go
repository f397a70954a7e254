package utils

import "time"

// Application Constants
const (
	AppName    = "DentaStore"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "fr"
	DefaultCurrency = "EUR"
	DefaultTimeZone = "Europe/Paris"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	PasswordMinLength = 8
	PasswordMaxLength = 128

	// Promo codes
	PromoCodeLength    = 10
	MaxPromoCodeLength = 32

	// Orders
	FreeShippingThreshold = 300.0
	DefaultShippingCost   = 9.90

	// File Upload
	MaxImageSize    = 5 * 1024 * 1024  // 5MB
	MaxDocumentSize = 10 * 1024 * 1024 // 10MB
	ThumbnailWidth  = 320

	// Cache TTLs
	PromotionCacheTTL = 30 * time.Minute
	ProductCacheTTL   = 15 * time.Minute
	SessionTTL        = 30 * 24 * time.Hour

	// Response statuses
	StatusSuccess = "success"
	StatusError   = "error"

	// Error messages
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized"
	ErrForbidden        = "Forbidden"
)
