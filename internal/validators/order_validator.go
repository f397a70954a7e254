package validators

import (
	"fmt"

	"dentastore/internal/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateOrderCreate checks the cart lines beyond tag validation:
// duplicated product lines would double-count quantities downstream.
func ValidateOrderCreate(req *services.CreateOrderRequest) ValidationErrors {
	errors := ValidateStruct(req)

	seen := make(map[primitive.ObjectID]bool, len(req.Items))
	for i, item := range req.Items {
		if seen[item.ProductID] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: "Duplicate product in order",
			})
		}
		seen[item.ProductID] = true
	}

	if req.ShippingAddress != nil {
		if req.ShippingAddress.Street == "" || req.ShippingAddress.City == "" || req.ShippingAddress.PostalCode == "" {
			errors = append(errors, ValidationError{
				Field:   "shipping_address",
				Message: "Street, city and postal code are required",
			})
		}
	}

	return errors
}
