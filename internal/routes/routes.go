package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"hrdesk/internal/config"
	"hrdesk/internal/email"
	"hrdesk/internal/handlers"
	"hrdesk/internal/lock"
	"hrdesk/internal/middleware"
	"hrdesk/internal/models"
)

// App carries what the handlers need. Now must return times in the
// configured business time zone.
type App struct {
	DB       *gorm.DB
	Config   config.Config
	Locks    lock.Locker
	Sessions sessions.Store
	Notifier email.Notifier
	Now      func() time.Time
}

func Register(router *gin.Engine, app App) {
	router.Use(corsMiddleware(app.Config.AllowedOrigins()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "hrdesk"})
	})

	authHandler := handlers.NewAuthHandler(app.DB, app.Config, app.Sessions, app.Now)
	attendanceHandler := handlers.NewAttendanceHandler(app.DB, app.Locks, app.Now)
	leaveHandler := handlers.NewLeaveHandler(app.DB, app.Notifier, app.Now)
	payrollHandler := handlers.NewPayrollHandler(app.DB, app.Locks, app.Now)
	userHandler := handlers.NewUserHandler(app.DB)
	dashboardHandler := handlers.NewDashboardHandler(app.DB, app.Now)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(app.Config.JwtSecret, app.Sessions))
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/dashboard", dashboardHandler.Employee)

		protected.GET("/attendance", attendanceHandler.List)
		protected.POST("/attendance/clock-in", attendanceHandler.ClockIn)
		protected.POST("/attendance/clock-out", attendanceHandler.ClockOut)

		protected.GET("/leave/request", leaveHandler.ListRequests)
		protected.POST("/leave/request", leaveHandler.CreateRequest)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/overview", dashboardHandler.Overview)

		admin.GET("/leave", leaveHandler.ListPending)
		admin.PATCH("/leave/:id", leaveHandler.Decide)

		admin.GET("/payroll", payrollHandler.List)
		admin.POST("/payroll", payrollHandler.Create)
		admin.POST("/payroll/generate", payrollHandler.Generate)
		admin.PATCH("/payroll/:id/paid", payrollHandler.MarkPaid)

		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.PATCH("/users/:id", userHandler.Update)
	}
}

// corsMiddleware allows any origin when none are configured. Credentials
// (the session cookie) are only allowed for an explicit origin list.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
