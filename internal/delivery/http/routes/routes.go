package routes

import (
	"jobboard/internal/delivery/http/handler"
	v1 "jobboard/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health    *handler.HealthHandler
	v1        v1.Handlers
	guards    handler.Guards
	authLimit fiber.Handler
	ws        fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, api v1.Handlers, guards handler.Guards, authLimit, ws fiber.Handler) *Registry {
	return &Registry{health: health, v1: api, guards: guards, authLimit: authLimit, ws: ws}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerRealtime(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws", r.ws)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1, r.guards, r.authLimit)
}
