package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Label   *apiHandler.LabelHandler
	Health  *apiHandler.HealthHandler
}

// New assembles the route table. Everything except health, signup, login
// and refresh sits behind the auth middleware.
func New(handlers Handlers, auth func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.Signup)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.GET("/api/v1/auth/me", auth(handlers.Profile.Get))

	// Protected routes
	r.GET("/api/v1/profile", auth(handlers.Profile.Get))
	r.PUT("/api/v1/profile", auth(handlers.Profile.Update))

	r.GET("/api/v1/tasks", auth(handlers.Task.List))
	r.POST("/api/v1/tasks", auth(handlers.Task.Create))
	r.GET("/api/v1/tasks/stats", auth(handlers.Task.Stats))
	r.GET("/api/v1/tasks/{id}", auth(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", auth(handlers.Task.Update))
	r.PATCH("/api/v1/tasks/{id}/status", auth(handlers.Task.UpdateStatus))
	r.DELETE("/api/v1/tasks/{id}", auth(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/labels/{labelID}", auth(handlers.Task.AttachLabel))
	r.DELETE("/api/v1/tasks/{id}/labels/{labelID}", auth(handlers.Task.DetachLabel))

	r.GET("/api/v1/labels", auth(handlers.Label.List))
	r.POST("/api/v1/labels", auth(handlers.Label.Create))
	r.GET("/api/v1/labels/{id}", auth(handlers.Label.Get))
	r.PUT("/api/v1/labels/{id}", auth(handlers.Label.Update))
	r.DELETE("/api/v1/labels/{id}", auth(handlers.Label.Delete))

	return r
}
