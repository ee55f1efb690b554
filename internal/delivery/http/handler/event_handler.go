package handler

import (
	"context"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/event"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
	ucevent "jobboard/internal/usecase/event"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type EventHandler struct {
	uc *ucevent.Service
}

func NewEventHandler(uc *ucevent.Service) *EventHandler {
	return &EventHandler{uc: uc}
}

func (h *EventHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Post("/manager/applications/:id/events", g.Auth, g.Manager, h.Schedule)
	r.Get("/events", g.Auth, h.List)
	r.Get("/events/:id", g.Auth, h.Get)
	r.Post("/events/:id/confirm", g.Auth, g.Candidate, h.transition(h.uc.Confirm))
	r.Post("/events/:id/cancel", g.Auth, h.transition(h.uc.Cancel))
	r.Post("/events/:id/complete", g.Auth, g.Manager, h.transition(h.uc.Complete))
}

func (h *EventHandler) Schedule(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	appID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucevent.ScheduleInput
	if err := bind(c, &req); err != nil {
		return err
	}

	d, err := h.uc.Schedule(c.Context(), a.ID, appID, req)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewEventResponse(d))
}

func (h *EventHandler) List(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var items []event.Detail
	switch a.Role {
	case user.RoleCandidate:
		items, err = h.uc.ListForCandidate(c.Context(), a.ID)
	case user.RoleManager:
		items, err = h.uc.ListForManager(c.Context(), a.ID)
	default:
		return usecase.Forbidden("events are listed for candidates and managers")
	}
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewEventResponse))
}

func (h *EventHandler) Get(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.Get(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEventResponse(d))
}

func (h *EventHandler) transition(fn func(ctx context.Context, actorID, id uuid.UUID) (event.Detail, error)) fiber.Handler {
	return func(c fiber.Ctx) error {
		a, err := currentActor(c)
		if err != nil {
			return err
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return err
		}

		d, err := fn(c.Context(), a.ID, id)
		if err != nil {
			return err
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEventResponse(d))
	}
}
