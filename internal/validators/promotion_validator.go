package validators

import (
	"dentastore/internal/models"
	"dentastore/internal/services"
)

// ValidatePromotionCreate layers business rules over the tag validation:
// date window orientation and type-specific discount parameters.
func ValidatePromotionCreate(req *services.CreatePromotionRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !req.EndDate.After(req.StartDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "End date must be after start date",
		})
	}

	switch req.Type {
	case models.PromotionTypePercentage:
		if req.DiscountValue <= 0 || req.DiscountValue > 100 {
			errors = append(errors, ValidationError{
				Field:   "discount_value",
				Message: "Percentage discount must be between 0 and 100",
			})
		}
	case models.PromotionTypeFixedAmount:
		if req.DiscountValue <= 0 {
			errors = append(errors, ValidationError{
				Field:   "discount_value",
				Message: "Fixed discount must be greater than zero",
			})
		}
	case models.PromotionTypeBuyXGetY:
		if req.BuyQuantity < 1 {
			errors = append(errors, ValidationError{
				Field:   "buy_quantity",
				Message: "Buy quantity must be at least 1",
			})
		}
		if req.GetQuantity < 1 {
			errors = append(errors, ValidationError{
				Field:   "get_quantity",
				Message: "Get quantity must be at least 1",
			})
		}
	}

	if req.UsageLimitPerUser > 0 && req.UsageLimit > 0 && req.UsageLimitPerUser > req.UsageLimit {
		errors = append(errors, ValidationError{
			Field:   "usage_limit_per_user",
			Message: "Per-user limit cannot exceed the global usage limit",
		})
	}

	return errors
}

// ValidatePromoCodeCreate checks a single code attachment request
func ValidatePromoCodeCreate(req *services.CreatePromoCodeRequest) ValidationErrors {
	return ValidateStruct(req)
}

// ValidateCodeGeneration checks a bulk generation request
func ValidateCodeGeneration(req *services.GenerateCodesRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if len(req.Prefix) > 12 {
		errors = append(errors, ValidationError{
			Field:   "prefix",
			Message: "Prefix must be at most 12 characters",
		})
	}

	return errors
}
