package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/controllers"
	"github.com/tollnotify/tollnotify-app/middlewares"
	"github.com/tollnotify/tollnotify-app/realtime"
	"github.com/tollnotify/tollnotify-app/services"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub, notifier *services.NotificationService, sms services.SmsSender) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	authCtrl := controllers.NewAuthController(db, sms)
	userCtrl := controllers.NewUserController(db, notifier)
	tollCtrl := controllers.NewTollPlazaController(db)
	adminCtrl := controllers.NewAdminController(db, notifier)
	wsCtrl := controllers.NewWSController(db, hub, notifier)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/api/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/verify-otp", authCtrl.VerifyOtp)
		public.POST("/resend-otp", authCtrl.ResendOtp)
		public.POST("/forgot-password", authCtrl.ForgotPassword)
		public.POST("/reset-password", authCtrl.ResetPassword)
		public.POST("/login", authCtrl.Login)
		public.POST("/admin/login", authCtrl.AdminLogin)
	}
	r.GET("/api/auth/logout", authCtrl.Logout)

	// Daftar gerbang tol terbuka untuk umum
	r.GET("/api/toll-plazas", tollCtrl.GetAllTollPlazas)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	user := r.Group("/api/users")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", userCtrl.GetProfile)
		user.PUT("/profile", userCtrl.UpdateProfile)
		user.PUT("/location", userCtrl.UpdateLocation)
		user.GET("/settings/notifications", userCtrl.GetNotificationSettings)
		user.PUT("/settings/notifications", userCtrl.UpdateNotificationSettings)
		user.PUT("/recharge", userCtrl.Recharge)
		user.GET("/notifications", userCtrl.GetNotifications)
		user.DELETE("/notifications", userCtrl.ClearNotifications)
		user.POST("/notifications/seen", userCtrl.MarkNotificationsSeen)
	}

	authed := r.Group("/api")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/toll-plazas/nearby", tollCtrl.GetNearbyTollPlazas)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/api/admin/dashboard")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.GET("/toll-plazas", adminCtrl.GetTollPlazas)
		admin.POST("/toll-plazas", adminCtrl.CreateTollPlaza)
		admin.PUT("/toll-plazas/:toll_id", adminCtrl.UpdateTollPlaza)
		admin.DELETE("/toll-plazas/:toll_id", adminCtrl.DeleteTollPlaza)

		admin.GET("/users", adminCtrl.GetUsers)
		admin.PUT("/users/:user_id/balance", adminCtrl.UpdateUserBalance)

		admin.GET("/notifications", adminCtrl.GetNotifications)
		admin.GET("/stats", adminCtrl.GetDashboardStats)
	}

	// WebSocket endpoint dengan auth via query token
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", wsCtrl.Handler)
	}

	return r
}
