package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/pkg/response"
	useruc "jobboard/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc    *useruc.Service
	files dto.FileURLer
}

func NewUserHandler(uc *useruc.Service, files dto.FileURLer) *UserHandler {
	return &UserHandler{uc: uc, files: files}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/users/me", g.Auth, h.GetMe)
	r.Put("/users/me", g.Auth, h.UpdateMe)
	r.Post("/users/me/avatar", g.Auth, h.UploadAvatar)
	r.Get("/users/me/profile", g.Auth, g.Candidate, h.GetProfile)
	r.Put("/users/me/profile", g.Auth, g.Candidate, h.UpdateProfile)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	u, err := h.uc.GetMe(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u, h.files))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var req useruc.UpdateMeInput
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.uc.UpdateMe(c.Context(), a.ID, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u, h.files))
}

func (h *UserHandler) UploadAvatar(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	f, closeFile, err := requiredFile(c, "avatar")
	defer closeFile()
	if err != nil {
		return err
	}

	u, err := h.uc.UploadAvatar(c.Context(), a.ID, f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u, h.files))
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	p, err := h.uc.GetProfile(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var req useruc.ProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.uc.UpdateProfile(c.Context(), a.ID, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}
