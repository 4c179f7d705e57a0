package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/pathcraft/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	User         *apiHandler.UserHandler
	Path         *apiHandler.PathHandler
	Progress     *apiHandler.ProgressHandler
	Activity     *apiHandler.ActivityHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.GET("/api/v1/auth/me", authMiddleware(handlers.Auth.Me))
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Account routes
	r.PUT("/api/v1/user/profile", authMiddleware(handlers.User.UpdateProfile))
	r.PUT("/api/v1/user/password", authMiddleware(handlers.User.ChangePassword))
	r.DELETE("/api/v1/user/account", authMiddleware(handlers.User.DeleteAccount))
	r.GET("/api/v1/user/saved-paths", authMiddleware(handlers.User.ListSavedPaths))
	r.POST("/api/v1/user/saved-paths/{pathId}", authMiddleware(handlers.User.SavePath))
	r.DELETE("/api/v1/user/saved-paths/{pathId}", authMiddleware(handlers.User.UnsavePath))

	// Path routes
	r.GET("/api/v1/paths", authMiddleware(handlers.Path.List))
	r.GET("/api/v1/user/paths", authMiddleware(handlers.Path.ListMine))
	r.GET("/api/v1/categories", authMiddleware(handlers.Path.Categories))
	r.POST("/api/v1/paths", authMiddleware(handlers.Path.Create))
	r.GET("/api/v1/paths/{pathId}", authMiddleware(handlers.Path.Get))
	r.PUT("/api/v1/paths/{pathId}", authMiddleware(handlers.Path.Update))
	r.DELETE("/api/v1/paths/{pathId}", authMiddleware(handlers.Path.Delete))
	r.POST("/api/v1/paths/{pathId}/clone", authMiddleware(handlers.Path.Clone))

	// Progress routes
	r.POST("/api/v1/progress/{pathId}", authMiddleware(handlers.Progress.StartTracking))
	r.GET("/api/v1/progress/{pathId}", authMiddleware(handlers.Progress.GetProgress))
	r.PUT("/api/v1/progress/{pathId}", authMiddleware(handlers.Progress.UpdateStatus))
	r.PUT("/api/v1/progress/{pathId}/steps/{stepId}", authMiddleware(handlers.Progress.ToggleStep))
	r.GET("/api/v1/user/progress", authMiddleware(handlers.Progress.ListUserProgress))

	// Activity / streak routes
	r.POST("/api/v1/activity", authMiddleware(handlers.Activity.TrackActivity))

	// Notification routes
	r.GET("/api/v1/notifications", authMiddleware(handlers.Notification.List))
	r.PUT("/api/v1/notifications/read-all", authMiddleware(handlers.Notification.MarkAllRead))
	r.PUT("/api/v1/notifications/{notificationId}/read", authMiddleware(handlers.Notification.MarkRead))
	r.DELETE("/api/v1/notifications/{notificationId}", authMiddleware(handlers.Notification.Delete))
	r.DELETE("/api/v1/notifications", authMiddleware(handlers.Notification.ClearAll))

	return r
}
