package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/pkg/response"
	ucreview "jobboard/internal/usecase/review"

	"github.com/gofiber/fiber/v3"
)

type ReviewHandler struct {
	uc *ucreview.Service
}

func NewReviewHandler(uc *ucreview.Service) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/companies/:id/reviews", h.ListForCompany)
	r.Post("/companies/:id/reviews", g.Auth, g.Candidate, h.Create)
	r.Get("/reviews", g.Auth, g.Candidate, h.Mine)
	r.Get("/reviews/:id", g.Auth, g.Candidate, h.Get)
	r.Put("/reviews/:id", g.Auth, g.Candidate, h.Update)
	r.Delete("/reviews/:id", g.Auth, g.Candidate, h.Delete)
}

func (h *ReviewHandler) ListForCompany(c fiber.Ctx) error {
	companyID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)

	items, err := h.uc.ListForCompany(c.Context(), companyID, limit, offset)
	if err != nil {
		return err
	}
	sum, err := h.uc.Summary(c.Context(), companyID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CompanyReviewsResponse{
		Summary: sum,
		Reviews: dto.NewPage(dto.Map(items, dto.NewReviewResponse), limit, offset),
	})
}

func (h *ReviewHandler) Create(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	companyID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucreview.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	rv, err := h.uc.Create(c.Context(), a.ID, companyID, req)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) Mine(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	items, err := h.uc.Mine(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewReviewResponse))
}

func (h *ReviewHandler) Get(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	rv, err := h.uc.Get(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) Update(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucreview.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	rv, err := h.uc.Update(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) Delete(c fiber.Ctx) error {
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
