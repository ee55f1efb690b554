package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	v1 "jobboard/internal/delivery/http/routes/v1"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/rs/zerolog"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application on top of an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: c.Config.App.BodyLimit,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerStatic(f, c.Config.Storage)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := NewLogger(cfg.App)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger zerolog.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

// registerStatic serves the public prefixes of the disk driver. Resumes and
// message attachments stay behind their authorized download routes.
func registerStatic(app *fiber.App, cfg config.StorageConfig) {
	if cfg.Driver != "" && cfg.Driver != "disk" {
		return
	}
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if !strings.HasPrefix(base, "/") {
		return
	}
	for _, p := range storage.PublicPrefixes(storage.DefaultPolicies()) {
		app.Get(base+"/"+p+"/*", middleware.StaticFileHeaders(), static.New(filepath.Join(cfg.DiskRoot, p)))
	}
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	s := c.Services
	files := c.Storage

	authLimit := middleware.NewRateLimiter(c.Config.RateLimit.AuthPerMinute)
	messageLimit := middleware.NewRateLimiter(c.Config.RateLimit.MessagePerMinute)
	guards := handler.NewGuards(middleware.NewAuthMiddleware(c.JWT), messageLimit.Middleware())

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": c.DB,
		"redis":    c.Cache,
	})

	api := v1.Handlers{
		Auth:          handler.NewAuthHandler(s.Auth, files),
		Users:         handler.NewUserHandler(s.Users, files),
		Companies:     handler.NewCompanyHandler(s.Companies, s.Reviews, files),
		Reviews:       handler.NewReviewHandler(s.Reviews),
		Jobs:          handler.NewJobHandler(s.Jobs),
		Reference:     handler.NewReferenceHandler(s.Reference),
		Applications:  handler.NewApplicationHandler(s.Applications),
		Events:        handler.NewEventHandler(s.Events),
		Messaging:     handler.NewMessagingHandler(s.Messaging),
		Notifications: handler.NewNotificationHandler(s.Notifications),
		Portfolio:     handler.NewPortfolioHandler(s.Portfolio, files),
		Resumes:       handler.NewResumeHandler(s.Resumes),
		Admin:         handler.NewAdminHandler(s.Users, s.Companies, files),
	}

	wsHandler := ws.NewHandler(c.Hub, c.JWT, c.Logger)

	routes.NewRegistry(health, api, guards, authLimit.Middleware(), wsHandler.Handle).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
