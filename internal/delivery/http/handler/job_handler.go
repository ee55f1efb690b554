package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/pkg/response"
	ucjob "jobboard/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc *ucjob.Service
}

type jobStatusRequest struct {
	Status string `json:"status"`
}

func NewJobHandler(uc *ucjob.Service) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.ListOpen)
	r.Post("/jobs", g.Auth, g.Manager, h.Create)
	r.Get("/jobs/:id", g.OptionalAuth, h.Get)
	r.Put("/jobs/:id", g.Auth, g.Manager, h.Update)
	r.Patch("/jobs/:id/status", g.Auth, g.Manager, h.SetStatus)
	r.Delete("/jobs/:id", g.Auth, g.Manager, h.Delete)
	r.Get("/manager/jobs", g.Auth, g.Manager, h.ListMine)
}

func (h *JobHandler) ListOpen(c fiber.Ctx) error {
	limit, offset := pageParams(c)
	items, err := h.uc.ListOpen(c.Context(), ucjob.ListParams{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(dto.Map(items, dto.NewJobResponse), limit, offset))
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	a, _ := currentActor(c)

	l, err := h.uc.Get(c.Context(), id, a.ID, a.isAdmin())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(l))
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ucjob.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	l, err := h.uc.Create(c.Context(), a.ID, req)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewJobResponse(l))
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucjob.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	l, err := h.uc.Update(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(l))
}

func (h *JobHandler) SetStatus(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req jobStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	l, err := h.uc.SetStatus(c.Context(), a.ID, id, req.Status)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(l))
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
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

func (h *JobHandler) ListMine(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewJobResponse))
}
