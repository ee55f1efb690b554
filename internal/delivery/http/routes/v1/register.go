package v1

import (
	"jobboard/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Companies     *handler.CompanyHandler
	Reviews       *handler.ReviewHandler
	Jobs          *handler.JobHandler
	Reference     *handler.ReferenceHandler
	Applications  *handler.ApplicationHandler
	Events        *handler.EventHandler
	Messaging     *handler.MessagingHandler
	Notifications *handler.NotificationHandler
	Portfolio     *handler.PortfolioHandler
	Resumes       *handler.ResumeHandler
	Admin         *handler.AdminHandler
}

// Register mounts the v1 API. authLimit throttles the auth endpoints.
func Register(r fiber.Router, h Handlers, g handler.Guards, authLimit fiber.Handler) {
	if r == nil {
		return
	}

	h.Auth.RegisterRoutes(r.Group("/auth"), authLimit)
	h.Users.RegisterRoutes(r, g)
	h.Companies.RegisterRoutes(r, g)
	h.Reviews.RegisterRoutes(r, g)
	h.Jobs.RegisterRoutes(r, g)
	h.Reference.RegisterRoutes(r, g)
	h.Applications.RegisterRoutes(r, g)
	h.Events.RegisterRoutes(r, g)
	h.Messaging.RegisterRoutes(r, g)
	h.Notifications.RegisterRoutes(r, g)
	h.Portfolio.RegisterRoutes(r, g)
	h.Resumes.RegisterRoutes(r, g)
	h.Admin.RegisterRoutes(r, g)
}
