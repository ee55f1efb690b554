package handler

import (
	"strconv"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/pkg/response"
	ucnotif "jobboard/internal/usecase/notification"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc *ucnotif.Service
}

func NewNotificationHandler(uc *ucnotif.Service) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/notifications", g.Auth, h.List)
	r.Get("/notifications/unread-count", g.Auth, h.UnreadCount)
	r.Post("/notifications/read-all", g.Auth, h.MarkAllRead)
	r.Post("/notifications/:id/read", g.Auth, h.MarkRead)
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	unread, _ := strconv.ParseBool(c.Query("unread"))
	limit, offset := pageParams(c)

	items, err := h.uc.List(c.Context(), a.ID, unread, limit, offset)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(dto.Map(items, dto.NewNotificationResponse), limit, offset))
}

func (h *NotificationHandler) UnreadCount(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	n, err := h.uc.UnreadCount(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CountResponse{Count: n})
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.MarkRead(c.Context(), a.ID, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	n, err := h.uc.MarkAllRead(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int64{"updated": n})
}
