package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/pkg/response"
	ucref "jobboard/internal/usecase/reference"

	"github.com/gofiber/fiber/v3"
)

type ReferenceHandler struct {
	uc *ucref.Service
}

func NewReferenceHandler(uc *ucref.Service) *ReferenceHandler {
	return &ReferenceHandler{uc: uc}
}

func (h *ReferenceHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/application-statuses", g.Auth, h.Statuses)
	r.Post("/application-statuses", g.Auth, g.Admin, h.SaveStatus)
	r.Get("/hiring-stages", g.Auth, h.Stages)
	r.Post("/hiring-stages", g.Auth, g.Admin, h.SaveStage)
}

func (h *ReferenceHandler) Statuses(c fiber.Ctx) error {
	items, err := h.uc.Statuses(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewLookupResponse))
}

func (h *ReferenceHandler) Stages(c fiber.Ctx) error {
	items, err := h.uc.Stages(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewLookupResponse))
}

func (h *ReferenceHandler) SaveStatus(c fiber.Ctx) error {
	var req ucref.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	l, err := h.uc.SaveStatus(c.Context(), req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLookupResponse(l))
}

func (h *ReferenceHandler) SaveStage(c fiber.Ctx) error {
	var req ucref.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	l, err := h.uc.SaveStage(c.Context(), req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLookupResponse(l))
}
