package routes

import (
	"foodie-api/handlers"
	"foodie-api/mailer"
	"foodie-api/middleware"
	"foodie-api/models"
	"foodie-api/realtime"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every endpoint. The hub and mailer are constructed
// in main and passed down; handlers that publish events or send mail
// close over them.
func SetupRoutes(r *gin.Engine, hub *realtime.Hub, m *mailer.Mailer) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/forgot-password", handlers.ForgotPassword(m))
		public.POST("/auth/reset-password", handlers.ResetPassword)
		public.GET("/auth/google", handlers.GoogleLogin)
		public.GET("/auth/google/callback", handlers.GoogleCallback)

		// Shops & menus (no auth needed)
		public.GET("/shop/all", handlers.GetAllShops)
		public.GET("/food", handlers.ListFoods)
		public.GET("/food/shop/:id", handlers.ListShopFoods)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/auth/profile", handlers.GetProfile)
		auth.POST("/upload", handlers.UploadImage)

		// Status transitions are shared by all roles; the state
		// machine decides who may do what.
		auth.PUT("/orders/:id/status", handlers.UpdateOrderStatus(hub))

		// Tracking detail enforces its own customer/courier/admin check.
		auth.GET("/tracking/:id/tracking", handlers.GetTracking)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleUser))
	{
		customer.POST("/orders", handlers.CreateOrder(hub))
		customer.GET("/orders/myorders", handlers.GetMyOrders)
	}

	// ── Shop owner (admin) routes ──────────────────────────────────
	admin := r.Group("/api")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/shop", handlers.GetMyShop)
		admin.POST("/shop", handlers.UpsertShop)

		admin.POST("/food", handlers.AddFood)
		admin.GET("/food/myfoods", handlers.ListMyFoods)
		admin.PUT("/food/:id", handlers.UpdateFood)
		admin.DELETE("/food/:id", handlers.DeleteFood)

		admin.GET("/orders/all", handlers.GetAllOrders)
	}

	// ── Courier routes ─────────────────────────────────────────────
	delivery := r.Group("/api")
	delivery.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.GET("/orders/delivery", handlers.GetDeliveryOrders)
		delivery.GET("/orders/my-deliveries", handlers.GetMyDeliveries)
		delivery.PUT("/tracking/:id/location", handlers.UpdateLocation(hub))
	}

	// ── Realtime ───────────────────────────────────────────────────
	r.GET("/ws", middleware.AuthRequired(), realtime.ServeWS(hub))

	// Uploaded images are served statically.
	r.Static("/uploads", "./uploads")
}
