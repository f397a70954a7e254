package validators

import (
	"testing"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validPromotionRequest() *services.CreatePromotionRequest {
	return &services.CreatePromotionRequest{
		Name:          "Soldes d'été",
		Type:          models.PromotionTypePercentage,
		DiscountValue: 15,
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(7 * 24 * time.Hour),
	}
}

func fieldMessages(errs ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

func TestValidatePromotionCreateAcceptsValidRequest(t *testing.T) {
	assert.Empty(t, ValidatePromotionCreate(validPromotionRequest()))
}

func TestValidatePromotionCreateRejectsInvertedDates(t *testing.T) {
	req := validPromotionRequest()
	req.StartDate = time.Now().Add(48 * time.Hour)
	req.EndDate = time.Now().Add(24 * time.Hour)

	errs := ValidatePromotionCreate(req)
	assert.Contains(t, fieldMessages(errs), "end_date")
}

func TestValidatePromotionCreatePercentageBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		invalid bool
	}{
		{"zero percent", 0, true},
		{"above hundred", 150, true},
		{"one percent", 1, false},
		{"hundred percent", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPromotionRequest()
			req.DiscountValue = tt.value

			errs := ValidatePromotionCreate(req)
			_, flagged := fieldMessages(errs)["discount_value"]
			assert.Equal(t, tt.invalid, flagged)
		})
	}
}

func TestValidatePromotionCreateFixedAmountPositive(t *testing.T) {
	req := validPromotionRequest()
	req.Type = models.PromotionTypeFixedAmount
	req.DiscountValue = 0

	errs := ValidatePromotionCreate(req)
	assert.Contains(t, fieldMessages(errs), "discount_value")
}

func TestValidatePromotionCreateBuyXGetYQuantities(t *testing.T) {
	req := validPromotionRequest()
	req.Type = models.PromotionTypeBuyXGetY
	req.DiscountValue = 0
	req.BuyQuantity = 0
	req.GetQuantity = 0

	messages := fieldMessages(ValidatePromotionCreate(req))
	assert.Contains(t, messages, "buy_quantity")
	assert.Contains(t, messages, "get_quantity")

	req.BuyQuantity = 2
	req.GetQuantity = 1
	assert.Empty(t, ValidatePromotionCreate(req))
}

func TestValidatePromotionCreatePerUserLimitWithinGlobal(t *testing.T) {
	req := validPromotionRequest()
	req.UsageLimit = 10
	req.UsageLimitPerUser = 20

	errs := ValidatePromotionCreate(req)
	assert.Contains(t, fieldMessages(errs), "usage_limit_per_user")

	req.UsageLimitPerUser = 10
	assert.Empty(t, ValidatePromotionCreate(req))
}

func TestValidateCodeGenerationPrefixLength(t *testing.T) {
	req := &services.GenerateCodesRequest{
		PromotionID: primitive.NewObjectID(),
		Count:       10,
		Prefix:      "PREFIXTOOLONGHERE",
	}

	errs := ValidateCodeGeneration(req)
	assert.Contains(t, fieldMessages(errs), "prefix")

	req.Prefix = "DENTAL"
	assert.Empty(t, ValidateCodeGeneration(req))
}
