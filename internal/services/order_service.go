package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"
	"dentastore/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPromoRejected wraps a business rejection of the order's promo code so
// the handler can surface the evaluator's message verbatim.
type ErrPromoRejected struct {
	Message string
}

func (e *ErrPromoRejected) Error() string {
	return e.Message
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID primitive.ObjectID, request *CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)
	ListOrders(ctx context.Context, params *utils.PaginationParams) ([]*models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, id primitive.ObjectID, reason string) error
}

type orderService struct {
	orderRepo           interfaces.OrderRepository
	productRepo         interfaces.ProductRepository
	userRepo            interfaces.UserRepository
	promotionService    PromotionService
	notificationService NotificationService
	emailService        EmailService
	paymentProvider     payment.PaymentProvider
	currency            string
	logger              *logger.Logger
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	PromoCode       string             `json:"promo_code"`
	PaymentMethodID string             `json:"payment_method_id" validate:"required"`
	ShippingAddress *models.Address    `json:"shipping_address" validate:"required"`
	BillingAddress  *models.Address    `json:"billing_address"`
	Notes           string             `json:"notes"`
}

type OrderItemRequest struct {
	ProductID primitive.ObjectID `json:"product_id" validate:"required"`
	Quantity  int                `json:"quantity" validate:"required,min=1"`
}

func NewOrderService(
	orderRepo interfaces.OrderRepository,
	productRepo interfaces.ProductRepository,
	userRepo interfaces.UserRepository,
	promotionService PromotionService,
	notificationService NotificationService,
	emailService EmailService,
	paymentProvider payment.PaymentProvider,
	currency string,
	logger *logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:           orderRepo,
		productRepo:         productRepo,
		userRepo:            userRepo,
		promotionService:    promotionService,
		notificationService: notificationService,
		emailService:        emailService,
		paymentProvider:     paymentProvider,
		currency:            currency,
		logger:              logger,
	}
}

// CreateOrder builds the cart from server-side prices, evaluates the promo
// code, charges the payment, and records the promotion usage exactly once.
func (s *orderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, request *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderItems, cartItems, subtotal, err := s.buildCart(ctx, request.Items)
	if err != nil {
		return nil, err
	}

	var (
		discount   float64
		evaluation *EvaluationResult
	)
	if request.PromoCode != "" {
		evaluation, err = s.promotionService.ApplyPromoCode(ctx, userID, request.PromoCode, subtotal, cartItems)
		if err != nil {
			return nil, err
		}
		if !evaluation.IsValid {
			return nil, &ErrPromoRejected{Message: evaluation.Message}
		}
		discount = evaluation.Discount
	}

	shippingCost := s.shippingCost(subtotal, evaluation)
	total := utils.RoundCurrency(subtotal - discount + shippingCost)

	order := &models.Order{
		UserID:         userID,
		Items:          orderItems,
		Subtotal:       utils.RoundCurrency(subtotal),
		DiscountAmount: discount,
		ShippingCost:   shippingCost,
		Total:          total,
		ShippingAddr:   request.ShippingAddress,
		BillingAddr:    request.BillingAddress,
		Notes:          request.Notes,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
	}
	if evaluation != nil {
		order.PromotionID = &evaluation.Promotion.ID
		order.PromoCodeID = &evaluation.PromoCode.ID
		order.PromoCode = evaluation.PromoCode.Code
	}

	// Reserve stock before taking payment
	reserved := make([]models.OrderItem, 0, len(orderItems))
	for _, item := range orderItems {
		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	// Consume the promotion before charging: if the last use was taken by a
	// concurrent order, the customer must not be billed the discounted total.
	if evaluation != nil {
		err := s.promotionService.RecordPromotionUsage(ctx, &RecordUsageRequest{
			UserID:         userID,
			PromotionID:    evaluation.Promotion.ID,
			PromoCodeID:    evaluation.PromoCode.ID,
			OrderID:        order.ID,
			DiscountAmount: discount,
			Conditions:     evaluation.Promotion.Conditions,
		})
		if err != nil {
			s.abandonOrder(ctx, order, reserved)
			if errors.Is(err, models.ErrPromotionExhausted) || errors.Is(err, models.ErrPromoCodeExhausted) {
				return nil, &ErrPromoRejected{Message: MsgPromoLimitReached}
			}
			return nil, err
		}
	}

	paymentResult, err := s.paymentProvider.ProcessPayment(ctx, &payment.PaymentRequest{
		PaymentMethodID: request.PaymentMethodID,
		Amount:          total,
		Currency:        s.currency,
		Description:     fmt.Sprintf("Commande %s", order.OrderNumber),
		Metadata: map[string]interface{}{
			"order_id":     order.ID.Hex(),
			"order_number": order.OrderNumber,
		},
	})
	if err != nil {
		s.orderRepo.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusFailed, "")
		s.logger.WithError(err).WithOrderID(order.ID).Error("Payment failed")
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPaid, paymentResult.TransactionID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusConfirmed); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.notifyOrderEvent(ctx, order, models.NotificationTypeOrderConfirmed, "Commande confirmée",
		fmt.Sprintf("Votre commande %s a été confirmée.", order.OrderNumber))

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendOrderConfirmationEmail(bgCtx, user, order); err != nil {
			s.logger.WithError(err).WithOrderID(order.ID).Warn("Failed to send order confirmation email")
		}
	}()

	s.logger.WithUserID(userID).WithOrderID(order.ID).WithFields(map[string]interface{}{
		"total":    order.Total,
		"discount": order.DiscountAmount,
	}).Info("Order created")

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.orderRepo.GetByOrderNumber(ctx, orderNumber)
}

func (s *orderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return s.orderRepo.GetByUser(ctx, userID, params)
}

func (s *orderService) ListOrders(ctx context.Context, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isValidTransition(order.Status, status) {
		return nil, fmt.Errorf("cannot transition order from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.OrderStatusShipped:
		s.notifyOrderEvent(ctx, order, models.NotificationTypeOrderShipped, "Commande expédiée",
			fmt.Sprintf("Votre commande %s a été expédiée.", order.OrderNumber))
	case models.OrderStatusDelivered:
		s.notifyOrderEvent(ctx, order, models.NotificationTypeOrderDelivered, "Commande livrée",
			fmt.Sprintf("Votre commande %s a été livrée.", order.OrderNumber))
	}

	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id primitive.ObjectID, reason string) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered {
		return fmt.Errorf("cannot cancel an order that has shipped")
	}
	if order.Status == models.OrderStatusCancelled {
		return nil
	}

	if order.PaymentStatus == models.PaymentStatusPaid && order.TransactionID != "" {
		_, err := s.paymentProvider.RefundPayment(ctx, &payment.RefundRequest{
			TransactionID: order.TransactionID,
			Amount:        order.Total,
			Reason:        reason,
		})
		if err != nil {
			return fmt.Errorf("refund failed: %w", err)
		}
		if err := s.orderRepo.UpdatePaymentStatus(ctx, id, models.PaymentStatusRefunded, order.TransactionID); err != nil {
			return err
		}
	}

	s.releaseStock(ctx, order.Items)

	if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusCancelled); err != nil {
		return err
	}

	s.notifyOrderEvent(ctx, order, models.NotificationTypeOrderCancelled, "Commande annulée",
		fmt.Sprintf("Votre commande %s a été annulée.", order.OrderNumber))

	s.logger.WithOrderID(id).WithField("reason", reason).Info("Order cancelled")

	return nil
}

// Helpers

func (s *orderService) buildCart(ctx context.Context, items []OrderItemRequest) ([]models.OrderItem, []models.CartItem, float64, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, 0, err
	}

	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	cartItems := make([]models.CartItem, 0, len(items))
	var subtotal float64

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, nil, 0, models.ErrProductNotFound
		}
		if product.Status != models.ProductStatusPublished {
			return nil, nil, 0, fmt.Errorf("product %s is not available", product.Name)
		}
		if product.Stock < item.Quantity {
			return nil, nil, 0, fmt.Errorf("insufficient stock for %s", product.Name)
		}

		unitPrice := product.EffectivePrice()
		subtotal += float64(item.Quantity) * unitPrice

		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			Name:        product.Name,
			Reference:   product.Reference,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			CategoryIDs: product.CategoryIDs,
		})
		cartItems = append(cartItems, models.CartItem{
			ProductID:   product.ID,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			CategoryIDs: product.CategoryIDs,
		})
	}

	return orderItems, cartItems, utils.RoundCurrency(subtotal), nil
}

// shippingCost owns the free-shipping decision: a free_shipping promotion
// waives the cost here, the evaluator itself only ever reports a zero
// monetary discount for that type.
func (s *orderService) shippingCost(subtotal float64, evaluation *EvaluationResult) float64 {
	if evaluation != nil && evaluation.Promotion.Type == models.PromotionTypeFreeShipping {
		return 0
	}
	if subtotal >= utils.FreeShippingThreshold {
		return 0
	}
	return utils.DefaultShippingCost
}

func (s *orderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.WithError(err).WithField("product_id", item.ProductID.Hex()).Error("Failed to release stock")
		}
	}
}

func (s *orderService) abandonOrder(ctx context.Context, order *models.Order, reserved []models.OrderItem) {
	s.releaseStock(ctx, reserved)
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
		s.logger.WithError(err).WithOrderID(order.ID).Error("Failed to cancel abandoned order")
	}
}

func (s *orderService) notifyOrderEvent(ctx context.Context, order *models.Order, notificationType models.NotificationType, title, message string) {
	err := s.notificationService.Notify(ctx, order.UserID, notificationType, title, message, map[string]interface{}{
		"order_id":     order.ID.Hex(),
		"order_number": order.OrderNumber,
	})
	if err != nil {
		s.logger.WithError(err).WithOrderID(order.ID).Warn("Failed to send order notification")
	}
}

func isValidTransition(from, to models.OrderStatus) bool {
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusConfirmed || to == models.OrderStatusCancelled
	case models.OrderStatusConfirmed:
		return to == models.OrderStatusShipped || to == models.OrderStatusCancelled
	case models.OrderStatusShipped:
		return to == models.OrderStatusDelivered
	default:
		return false
	}
}
