package validators

import (
	"testing"

	"dentastore/internal/models"
	"dentastore/internal/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validOrderRequest() *services.CreateOrderRequest {
	return &services.CreateOrderRequest{
		Items: []services.OrderItemRequest{
			{ProductID: primitive.NewObjectID(), Quantity: 2},
		},
		PaymentMethodID: "pm_test_123",
		ShippingAddress: &models.Address{
			Street:     "12 rue des Lilas",
			City:       "Lyon",
			PostalCode: "69003",
			Country:    "France",
		},
	}
}

func TestValidateOrderCreateAcceptsValidRequest(t *testing.T) {
	assert.Empty(t, ValidateOrderCreate(validOrderRequest()))
}

func TestValidateOrderCreateRejectsDuplicateProducts(t *testing.T) {
	req := validOrderRequest()
	req.Items = append(req.Items, services.OrderItemRequest{
		ProductID: req.Items[0].ProductID,
		Quantity:  1,
	})

	errs := ValidateOrderCreate(req)
	assert.NotEmpty(t, errs)
	assert.Equal(t, "items[1].product_id", errs[0].Field)
}

func TestValidateOrderCreateRequiresCompleteShippingAddress(t *testing.T) {
	req := validOrderRequest()
	req.ShippingAddress.PostalCode = ""

	errs := ValidateOrderCreate(req)
	assert.NotEmpty(t, errs)
	assert.Equal(t, "shipping_address", errs[0].Field)
}
