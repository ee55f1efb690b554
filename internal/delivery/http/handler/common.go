package handler

import (
	"strconv"
	"strings"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/user"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Guards are the middleware chains routes are mounted behind.
type Guards struct {
	Auth         fiber.Handler
	OptionalAuth fiber.Handler
	Candidate    fiber.Handler
	Manager      fiber.Handler
	Admin        fiber.Handler
	// MessageLimit throttles message sending.
	MessageLimit fiber.Handler
}

func NewGuards(auth *middleware.AuthMiddleware, messageLimit fiber.Handler) Guards {
	return Guards{
		Auth:         auth.Middleware(),
		OptionalAuth: auth.Optional(),
		Candidate:    middleware.RequireRole(user.RoleCandidate),
		Manager:      middleware.RequireRole(user.RoleManager),
		Admin:        middleware.RequireRole(user.RoleAdmin),
		MessageLimit: messageLimit,
	}
}

type actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a actor) isAdmin() bool { return a.Role == user.RoleAdmin }

func currentActor(c fiber.Ctx) (actor, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return actor{ID: id, Role: middleware.Role(c)}, nil
}

func paramUUID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, "Resource not found", nil, err)
	}
	return id, nil
}

func queryUUID(c fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, usecase.Invalid(name + " must be a valid id")
	}
	return &id, nil
}

func queryInt(c fiber.Ctx, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func pageParams(c fiber.Ctx) (int, int) {
	return usecase.NormalizePage(queryInt(c, "limit", 0), queryInt(c, "offset", 0))
}

func bind(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

// formFile opens an optional multipart file. The returned close func is
// always safe to call.
func formFile(c fiber.Ctx, field string) (*usecase.File, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		// Not multipart, or no such part.
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, middleware.NewAppError(fiber.StatusBadRequest, "Could not read upload", nil, err)
	}
	return &usecase.File{Name: fh.Filename, Size: fh.Size, Content: f}, func() { _ = f.Close() }, nil
}

// requiredFile is formFile for uploads the endpoint cannot do without.
func requiredFile(c fiber.Ctx, field string) (usecase.File, func(), error) {
	f, closeFn, err := formFile(c, field)
	if err != nil {
		return usecase.File{}, closeFn, err
	}
	if f == nil {
		return usecase.File{}, closeFn, usecase.Rule(field, "file is required")
	}
	return *f, closeFn, nil
}

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

func (r activeRequest) value() (bool, error) {
	if r.IsActive == nil {
		return false, usecase.Rule("is_active", "is required")
	}
	return *r.IsActive, nil
}
