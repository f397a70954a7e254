package handlers

import (
	"errors"
	"net/http"

	"dentastore/internal/models"
	"dentastore/internal/services"
	"dentastore/internal/utils"
	"dentastore/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	return userObjectID, true
}

func currentUserRole(c *gin.Context) models.UserRole {
	role, exists := c.Get("user_role")
	if !exists {
		return models.UserRoleCustomer
	}
	roleStr, ok := role.(string)
	if !ok {
		return models.UserRoleCustomer
	}
	return models.UserRole(roleStr)
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

func validationDetails(verrs validators.ValidationErrors) map[string]string {
	details := make(map[string]string, len(verrs))
	for _, verr := range verrs {
		details[verr.Field] = verr.Message
	}
	return details
}

// handleServiceError maps repository sentinels and promo rejections to the
// right HTTP status; anything unexpected collapses to a 500.
func handleServiceError(c *gin.Context, err error, code string) {
	var promoRejection *services.ErrPromoRejected
	switch {
	case errors.As(err, &promoRejection):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PROMO_CODE_REJECTED", promoRejection.Message)
	case errors.Is(err, models.ErrPromotionNotFound),
		errors.Is(err, models.ErrPromoCodeNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrChatNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicatePromoCode),
		errors.Is(err, models.ErrDuplicateReview):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrForbidden):
		utils.ForbiddenResponse(c)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, code, err.Error())
	}
}
