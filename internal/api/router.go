package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"loantrack/internal/auth"
	"loantrack/internal/config"
	"loantrack/internal/events"
	"loantrack/internal/upload"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client, hub *events.Hub, uploads *upload.Saver) *gin.Engine {
	r := gin.Default()
	r.Use(CORSMiddleware(cfg.Server.ClientOrigin))

	// Uploaded photos are served straight from disk.
	r.Static("/uploads", uploads.Dir)

	authed := auth.Middleware(cfg, rdb)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler)

		// Auth
		api.POST("/auth/register", RegisterHandler(cfg, rdb))
		api.POST("/auth/login", LoginHandler(cfg, rdb))
		api.GET("/auth/me", authed, MeHandler())
		api.POST("/auth/logout", authed, LogoutHandler(rdb))

		// Admin: user management
		users := api.Group("/users", authed, auth.RequireAdmin())
		{
			users.GET("", ListUsersHandler())
			users.GET("/pending", ListPendingUsersHandler())
			users.PUT("/:id/approve", ApproveUserHandler())
			users.PUT("/:id/role", UpdateUserRoleHandler())
			users.DELETE("/:id", DeleteUserHandler(uploads))
		}

		// Loans
		loans := api.Group("/loans", authed)
		{
			loans.GET("", ListLoansHandler())
			loans.GET("/stats", auth.RequireAdmin(), StatsHandler())
			loans.GET("/:id", GetLoanHandler())
			loans.POST("", auth.RequireApproved(), CreateLoanHandler(uploads, hub))
			loans.PUT("/:id/return", ReturnLoanHandler(uploads, hub))
			loans.PUT("/:id/status", auth.RequireAdmin(), UpdateLoanStatusHandler(hub))
		}

		// Live loan activity for the admin dashboard
		api.GET("/ws/events", WSEventsHandler(cfg, hub))
	}
	return r
}
