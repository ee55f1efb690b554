package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/portfolio"
	"jobboard/internal/pkg/response"
	ucportfolio "jobboard/internal/usecase/portfolio"

	"github.com/gofiber/fiber/v3"
)

type PortfolioHandler struct {
	uc    *ucportfolio.Service
	files dto.FileURLer
}

func NewPortfolioHandler(uc *ucportfolio.Service, files dto.FileURLer) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, files: files}
}

func (h *PortfolioHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/portfolio", g.Auth, g.Candidate, h.List)
	r.Post("/portfolio", g.Auth, g.Candidate, h.Create)
	r.Get("/portfolio/:id", g.Auth, g.Candidate, h.Get)
	r.Put("/portfolio/:id", g.Auth, g.Candidate, h.Update)
	r.Delete("/portfolio/:id", g.Auth, g.Candidate, h.Delete)
}

func (h *PortfolioHandler) List(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), a.ID)
	if err != nil {
		return err
	}
	out := dto.Map(items, func(it portfolio.Item) dto.PortfolioItemResponse { return dto.NewPortfolioItemResponse(it, h.files) })
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *PortfolioHandler) Get(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	it, err := h.uc.Get(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPortfolioItemResponse(it, h.files))
}

// Create accepts JSON or multipart with an optional thumbnail part.
func (h *PortfolioHandler) Create(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ucportfolio.Input
	if err := bind(c, &req); err != nil {
		return err
	}
	thumb, closeFile, err := formFile(c, "thumbnail")
	defer closeFile()
	if err != nil {
		return err
	}

	it, err := h.uc.Create(c.Context(), a.ID, req, thumb)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewPortfolioItemResponse(it, h.files))
}

func (h *PortfolioHandler) Update(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucportfolio.Input
	if err := bind(c, &req); err != nil {
		return err
	}
	thumb, closeFile, err := formFile(c, "thumbnail")
	defer closeFile()
	if err != nil {
		return err
	}

	it, err := h.uc.Update(c.Context(), a.ID, id, req, thumb)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPortfolioItemResponse(it, h.files))
}

func (h *PortfolioHandler) Delete(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), a.ID, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}
