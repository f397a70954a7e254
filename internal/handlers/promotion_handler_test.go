package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dentastore/internal/models"
	"dentastore/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubPromotionService overrides only what a test exercises; calling
// anything else panics on the embedded nil interface.
type stubPromotionService struct {
	services.PromotionService

	applyResult *services.EvaluationResult
	applyCalled bool
}

func (s *stubPromotionService) ApplyPromoCode(ctx context.Context, userID primitive.ObjectID, code string, cartTotal float64, cartItems []models.CartItem) (*services.EvaluationResult, error) {
	s.applyCalled = true
	return s.applyResult, nil
}

func applyRequest(t *testing.T, svc services.PromotionService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewPromotionHandler(svc)
	router := gin.New()
	router.POST("/promotions/apply", func(c *gin.Context) {
		c.Set("user_id", primitive.NewObjectID())
		c.Set("user_role", string(models.UserRoleCustomer))
		handler.ApplyPromoCode(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/promotions/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestApplyPromoCodeRejectsNegativeCartTotal(t *testing.T) {
	svc := &stubPromotionService{}

	recorder := applyRequest(t, svc, `{"code":"SOLDES20","cart_total":-100}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	assert.False(t, svc.applyCalled, "a rejected request must not reach the evaluator")
}

func TestApplyPromoCodeRequiresCode(t *testing.T) {
	svc := &stubPromotionService{}

	recorder := applyRequest(t, svc, `{"cart_total":100}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, svc.applyCalled)
}

func TestApplyPromoCodeForwardsValidRequest(t *testing.T) {
	svc := &stubPromotionService{
		applyResult: &services.EvaluationResult{
			IsValid:  true,
			Discount: 20,
			Message:  "Code promo appliqué: -20€",
		},
	}

	recorder := applyRequest(t, svc, `{"code":"SOLDES20","cart_total":100}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, svc.applyCalled)
	assert.Contains(t, recorder.Body.String(), `"is_valid":true`)
}
