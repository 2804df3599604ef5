package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mithaasdelights/mithaas-backend-go/handlers"
	"github.com/mithaasdelights/mithaas-backend-go/middleware"
)

// SetupRoutes registers every endpoint of the service on e.
func SetupRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public catalog and storefront.
	api.GET("/products", handlers.GetProducts)
	api.GET("/products/search", handlers.SearchProducts)
	api.GET("/products/featured", handlers.GetFeaturedProducts)
	api.GET("/products/:id", handlers.GetProduct)
	api.GET("/reviews/:id", handlers.ListProductReviews, middleware.OptionalAuth)
	api.GET("/banners", handlers.GetBanners)
	api.GET("/media", handlers.ListMedia)
	api.POST("/bulk-orders", handlers.CreateBulkOrder)
	api.POST("/coupons/apply", handlers.ApplyCoupon)
	api.GET("/orders/track/:id", handlers.TrackOrder)
	api.POST("/delivery/calculate", handlers.CalculateDelivery)
	api.GET("/delivery/policy", handlers.DeliveryPolicy)

	// Auth.
	api.POST("/auth/register", handlers.Register)
	api.POST("/auth/login", handlers.Login)

	// Chat works anonymously; an authenticated caller gets order context.
	api.POST("/chat/message", handlers.ChatMessage, middleware.OptionalAuth)
	api.GET("/chat/history/:sessionId", handlers.ChatHistory)

	// Authenticated customer surface.
	auth := api.Group("", middleware.AuthMiddleware)
	auth.GET("/cart", handlers.GetCart)
	auth.POST("/cart/add", handlers.AddToCart)
	auth.PUT("/cart/update", handlers.UpdateCartItem)
	auth.DELETE("/cart/remove/:productId", handlers.RemoveFromCart)
	auth.DELETE("/cart/clear", handlers.ClearCart)
	auth.POST("/cart/merge", handlers.MergeCart)
	auth.POST("/cart/validate", handlers.ValidateCart)

	auth.POST("/orders", handlers.CreateOrder)
	auth.GET("/orders/user/my-orders", handlers.MyOrders)
	auth.GET("/orders/:id", handlers.GetOrder)
	auth.POST("/orders/:id/cancel", handlers.CancelOrder)

	auth.POST("/razorpay/create-order", handlers.CreateRazorpayOrder)
	auth.POST("/razorpay/verify-payment", handlers.VerifyPayment)

	auth.POST("/reviews", handlers.CreateReview)

	auth.GET("/auth/me", handlers.Me)
	auth.PUT("/auth/profile", handlers.UpdateProfile)

	auth.GET("/wishlist", handlers.GetWishlist)
	auth.POST("/wishlist/:productId", handlers.AddToWishlist)
	auth.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist)

	// Admin surface.
	admin := api.Group("", middleware.AuthMiddleware, middleware.RequireAdmin)
	admin.POST("/products", handlers.CreateProduct)
	admin.PUT("/products/:id", handlers.UpdateProduct)
	admin.DELETE("/products/:id", handlers.DeleteProduct)

	admin.POST("/coupons", handlers.CreateCoupon)
	admin.GET("/coupons", handlers.ListCoupons)
	admin.DELETE("/coupons/:id", handlers.DeleteCoupon)

	admin.GET("/orders", handlers.ListOrders)
	admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)

	admin.GET("/reviews/pending/all", handlers.ListPendingReviews)
	admin.PUT("/reviews/:id/approve", handlers.ApproveReview)
	admin.DELETE("/reviews/:id", handlers.DeleteReview)

	admin.GET("/banners/all", handlers.ListAllBanners)
	admin.POST("/banners", handlers.CreateBanner)
	admin.PUT("/banners/:id", handlers.UpdateBanner)
	admin.DELETE("/banners/:id", handlers.DeleteBanner)

	admin.GET("/bulk-orders", handlers.ListBulkOrders)
	admin.PUT("/bulk-orders/:id/status", handlers.UpdateBulkOrderStatus)

	admin.POST("/media", handlers.CreateMedia)
	admin.DELETE("/media/:id", handlers.DeleteMedia)

	admin.GET("/admin/users", handlers.AdminListUsers)
	admin.PUT("/admin/users/:id/active", handlers.AdminSetUserActive)
}
