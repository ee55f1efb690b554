package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	ucauth "jobboard/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc    *ucauth.Service
	files dto.FileURLer
}

func NewAuthHandler(uc *ucauth.Service, files dto.FileURLer) *AuthHandler {
	return &AuthHandler{uc: uc, files: files}
}

// RegisterRoutes mounts the public auth endpoints. limit throttles them
// per client.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, limit fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/register", limit, h.Register)
	r.Post("/login", limit, h.Login)
	r.Post("/refresh", limit, h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req ucauth.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, h.session(sess))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req ucauth.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session(sess))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	sess, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session(sess))
}

func (h *AuthHandler) session(s ucauth.Session) dto.SessionResponse {
	return dto.SessionResponse{
		User:         dto.NewUserResponse(s.User, h.files),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
