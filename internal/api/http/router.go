package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/http/handlers"
	"github.com/spec-kit/portal-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	AdminAuth      *handlers.AdminAuthHandler
	Posts          *handlers.PostsHandler
	Quizzes        *handlers.QuizzesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/posts", cfg.Posts.PublicList)
	app.Get("/posts/:slug", cfg.Posts.PublicGet)
	app.Get("/quizzes", cfg.Quizzes.PublicList)
	app.Get("/quizzes/:id", cfg.Quizzes.PublicGet)
	app.Post("/quizzes/:id/attempts", cfg.Quizzes.Submit)

	authGroup := app.Group("/auth/admin")
	authGroup.Post("/login", cfg.AdminAuth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.AdminAuth.Me)
	authGroup.Post("/password", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.AdminAuth.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole())
	admin.Post("/admins", auth.RequireSuperAdmin(), cfg.AdminAuth.CreateAdmin)

	admin.Get("/posts", cfg.Posts.List)
	admin.Post("/posts", cfg.Posts.Create)
	admin.Get("/posts/:id", cfg.Posts.Get)
	admin.Put("/posts/:id", cfg.Posts.Update)
	admin.Post("/posts/:id/publish", cfg.Posts.SetPublished)
	admin.Delete("/posts/:id", auth.RequireSuperAdmin(), cfg.Posts.Delete)

	admin.Get("/quizzes", cfg.Quizzes.List)
	admin.Post("/quizzes", cfg.Quizzes.Create)
	admin.Get("/quizzes/:id", cfg.Quizzes.Get)
	admin.Put("/quizzes/:id", cfg.Quizzes.Update)
	admin.Delete("/quizzes/:id", auth.RequireSuperAdmin(), cfg.Quizzes.Delete)
	admin.Get("/quizzes/:id/attempts", cfg.Quizzes.Attempts)
}
