package routes

import (
	"dentastore/internal/handlers"
	"dentastore/internal/middleware"
	"dentastore/internal/services"
	"dentastore/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every handler for route registration
type Handlers struct {
	Auth         *handlers.AuthHandler
	Product      *handlers.ProductHandler
	Category     *handlers.CategoryHandler
	Promotion    *handlers.PromotionHandler
	Order        *handlers.OrderHandler
	Review       *handlers.ReviewHandler
	Chat         *handlers.ChatHandler
	Notification *handlers.NotificationHandler
	WebSocket    *websocket.Handler
}

// Setup registers every route group under /api/v1
func Setup(r *gin.RouterGroup, h *Handlers, authService services.AuthService) {
	SetupAuthRoutes(r, h.Auth, authService)
	SetupCatalogRoutes(r, h.Product, h.Category, authService)
	SetupPromotionRoutes(r, h.Promotion, authService)
	SetupOrderRoutes(r, h.Order, authService)
	SetupReviewRoutes(r, h.Review, authService)
	SetupChatRoutes(r, h.Chat, h.WebSocket, authService)
	SetupNotificationRoutes(r, h.Notification, authService)
}

// SetupAuthRoutes sets up authentication and profile routes
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, authService services.AuthService) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthRequired(authService))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.PUT("/password", authHandler.ChangePassword)
	}

	profile := r.Group("/profile")
	profile.Use(middleware.AuthRequired(authService))
	{
		profile.GET("", authHandler.GetProfile)
		profile.PUT("", authHandler.UpdateProfile)
	}
}

// SetupCatalogRoutes sets up public catalog routes and admin product management
func SetupCatalogRoutes(r *gin.RouterGroup, productHandler *handlers.ProductHandler, categoryHandler *handlers.CategoryHandler, authService services.AuthService) {
	products := r.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/category/:category_id", productHandler.GetProductsByCategory)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.GET("/slug/:slug", categoryHandler.GetCategoryBySlug)
		categories.GET("/:id/children", categoryHandler.GetChildCategories)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.POST("/products/:id/images", productHandler.UploadProductImage)
		admin.DELETE("/products/:id/images", productHandler.RemoveProductImage)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	}
}

// SetupPromotionRoutes sets up promo code evaluation and promotion administration
func SetupPromotionRoutes(r *gin.RouterGroup, promotionHandler *handlers.PromotionHandler, authService services.AuthService) {
	promotions := r.Group("/promotions")
	{
		promotions.GET("/active", promotionHandler.GetActivePromotions)
	}

	protected := r.Group("/promotions")
	protected.Use(middleware.AuthRequired(authService))
	{
		protected.POST("/apply", promotionHandler.ApplyPromoCode)
	}

	admin := r.Group("/admin/promotions")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.POST("", promotionHandler.CreatePromotion)
		admin.GET("", promotionHandler.ListPromotions)
		admin.GET("/:id", promotionHandler.GetPromotion)
		admin.PUT("/:id", promotionHandler.UpdatePromotion)
		admin.PUT("/:id/status", promotionHandler.UpdatePromotionStatus)
		admin.DELETE("/:id", promotionHandler.DeletePromotion)
		admin.GET("/:id/stats", promotionHandler.GetPromotionStats)

		admin.POST("/codes", promotionHandler.CreatePromoCode)
		admin.POST("/codes/generate", promotionHandler.GeneratePromoCodes)
		admin.GET("/:id/codes", promotionHandler.GetPromoCodes)
		admin.PUT("/codes/:id/deactivate", promotionHandler.DeactivatePromoCode)
	}
}

// SetupOrderRoutes sets up customer order routes and admin order management
func SetupOrderRoutes(r *gin.RouterGroup, orderHandler *handlers.OrderHandler, authService services.AuthService) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthRequired(authService))
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetMyOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
	}

	admin := r.Group("/admin/orders")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.GET("", orderHandler.ListOrders)
		admin.PUT("/:id/status", orderHandler.UpdateOrderStatus)
	}
}

// SetupReviewRoutes sets up product review routes
func SetupReviewRoutes(r *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, authService services.AuthService) {
	r.GET("/reviews/product/:product_id", reviewHandler.GetProductReviews)

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(authService))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/mine", reviewHandler.GetMyReviews)
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}
}

// SetupChatRoutes sets up support chat routes and the websocket endpoint
func SetupChatRoutes(r *gin.RouterGroup, chatHandler *handlers.ChatHandler, wsHandler *websocket.Handler, authService services.AuthService) {
	conversations := r.Group("/conversations")
	conversations.Use(middleware.AuthRequired(authService))
	{
		conversations.POST("", chatHandler.StartConversation)
		conversations.GET("", chatHandler.GetMyConversations)
		conversations.GET("/:id", chatHandler.GetConversation)
		conversations.POST("/:id/messages", chatHandler.SendMessage)
		conversations.GET("/:id/messages", chatHandler.GetMessages)
		conversations.PUT("/:id/read", chatHandler.MarkMessagesRead)
	}

	support := r.Group("/support/conversations")
	support.Use(middleware.AuthRequired(authService), middleware.SupportRequired())
	{
		support.GET("/open", chatHandler.GetOpenConversations)
		support.PUT("/:id/assign", chatHandler.AssignConversation)
		support.PUT("/:id/close", chatHandler.CloseConversation)
	}

	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(authService))
	{
		ws.GET("", wsHandler.HandleWebSocket)
	}
}

// SetupNotificationRoutes sets up in-app notification routes
func SetupNotificationRoutes(r *gin.RouterGroup, notificationHandler *handlers.NotificationHandler, authService services.AuthService) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(authService))
	{
		notifications.GET("", notificationHandler.GetMyNotifications)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.DELETE("/:id", notificationHandler.DeleteNotification)
	}
}
