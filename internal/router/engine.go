package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"isvaryam.com/storefront/pkg/global"
)

// NewEngine builds the gin engine with CORS, request logging and every route.
func NewEngine(cfg *global.Config, h *Handler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := NewRateLimiter(cfg.RateLimit)
	InitializeRoutes(router, h, limiter)
	return router
}

func InitializeRoutes(router *gin.Engine, h *Handler, limiter *RateLimiter) {
	auth := AuthRequired(h.Auth)
	admin := RequireAdmin()
	limited := limiter.Middleware()

	router.GET("/health", h.HealthCheck)

	foods := router.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.POST("", auth, admin, h.CreateFood)
		foods.PUT("", auth, admin, h.UpdateFood)
		foods.DELETE("/:id", auth, admin, h.DeleteFood)
		foods.GET("/category/:category", h.FoodsByCategory)
		foods.GET("/search/:searchTerm", h.SearchFoods)
		foods.GET("/id/:id", h.GetFoodByID)
		foods.GET("/:productId", h.GetFood)
	}

	cart := router.Group("/cart", auth)
	{
		cart.GET("", h.GetCart)
		cart.POST("", h.AddToCart)
		cart.DELETE("/:productId/:size", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
	}

	orders := router.Group("/orders", auth)
	{
		orders.POST("/create", h.CreateOrder)
		orders.POST("/:gateway/create-order", h.CreatePaymentIntent)
		orders.POST("/:gateway/verify-payment", h.VerifyPayment)
		orders.PUT("/pay", h.Pay)

		orders.GET("", h.ListOrders)
		orders.GET("/:status", h.ListOrders)
		orders.GET("/orders", admin, h.ListAllOrders)
		orders.GET("/allstatus", h.AllStatus)
		orders.GET("/user-purchase-count", h.PurchaseCount)
		orders.GET("/newOrderForCurrentUser", h.CurrentNewOrder)
		orders.GET("/track/:orderId", h.TrackOrder)
		orders.GET("/order/:id", h.GetOrder)
		orders.GET("/delivery-charge", h.QuoteDeliveryCharge)
		orders.GET("/delivery-charges", admin, h.ListDeliveryCharges)
		orders.PUT("/delivery-charges", admin, h.SetDeliveryCharge)

		orders.PATCH("/order/:id/status", admin, h.UpdateOrderStatus)
		orders.PATCH("/payment/:id/status", admin, h.UpdatePaymentStatus)
		orders.DELETE("/:id", admin, h.DeleteOrder)
	}

	coupons := router.Group("/coupons", auth)
	{
		coupons.GET("", h.ListCoupons)
		coupons.POST("", admin, h.CreateCoupon)
		coupons.POST("/validate", h.ValidateCoupon)
		coupons.GET("/:code", h.GetCoupon)
		coupons.PUT("/:id", admin, h.UpdateCoupon)
		coupons.DELETE("/:id", admin, h.DeleteCoupon)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", auth, h.CreateReview)
		reviews.GET("", h.ListReviews)
		reviews.GET("/recent", h.RecentReviews)
		reviews.GET("/average-ratings", h.AverageRatings)
		reviews.GET("/category/:category", h.ReviewsByCategory)
		reviews.GET("/date/:date", h.ReviewsByDate)
		reviews.GET("/product/:productId", h.ReviewsByProduct)
		reviews.GET("/product/:productId/ratings-distribution", h.RatingDistribution)
		reviews.GET("/product/:productId/summary", h.RatingSummary)
		reviews.PUT("/reply/:reviewId", auth, admin, h.AddReply)
		reviews.PUT("/reply/:reviewId/:replyId", auth, admin, h.UpdateReply)
	}

	wishlist := router.Group("/whishlist", auth)
	{
		wishlist.POST("", h.AddToWishlist)
		wishlist.GET("", h.GetWishlist)
		wishlist.DELETE("/:productId", h.RemoveFromWishlist)
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", auth, h.CreateRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/like", auth, h.LikeRecipe)
		recipes.POST("/:id/unlike", auth, h.UnlikeRecipe)
		recipes.POST("/:id/review", auth, h.RateRecipe)
	}

	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", limited, h.Login)
		users.POST("/google-signup", h.GoogleSignup)
		users.GET("/profile", auth, h.Profile)
		users.PUT("/updateProfile", auth, h.UpdateProfile)
		users.PUT("/changePassword", auth, h.ChangePassword)
	}

	otp := router.Group("/otp", limited)
	{
		otp.POST("/send-otp", h.SendSignupOTP)
		otp.POST("/verify-otp", h.VerifySignupOTP)
	}

	forget := router.Group("/forget", limited)
	{
		forget.POST("/forget-send-otp", h.SendResetOTP)
		forget.POST("/forget-verify-otp", h.VerifyResetOTP)
		forget.POST("/forget-reset-password", h.ResetPassword)
	}

	router.POST("/contact/send-contact-email", limited, h.SendContactEmail)

	analytics := router.Group("/analytics", auth, admin)
	{
		analytics.GET("/revenue", h.RevenueTrend)
		analytics.GET("/products", h.TopProducts)

		aiAnalytics := analytics.Group("/ai")
		{
			aiAnalytics.GET("/sales-report", h.AISalesReport)
			aiAnalytics.GET("/feedback-report", h.AIFeedbackReport)
		}
	}
}
