package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/messaging"
	"jobboard/internal/pkg/response"
	ucmsg "jobboard/internal/usecase/messaging"

	"github.com/gofiber/fiber/v3"
)

type MessagingHandler struct {
	uc *ucmsg.Service
}

func NewMessagingHandler(uc *ucmsg.Service) *MessagingHandler {
	return &MessagingHandler{uc: uc}
}

func (h *MessagingHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/conversations", g.Auth, h.List)
	r.Post("/conversations", g.Auth, h.Start)
	r.Get("/conversations/:id/messages", g.Auth, h.Messages)
	r.Post("/conversations/:id/messages", g.Auth, g.MessageLimit, h.Send)
	r.Get("/messages/unread-count", g.Auth, h.UnreadCount)
	r.Get("/messages/:id/attachment", g.Auth, h.Attachment)
}

func (h *MessagingHandler) List(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), a.ID)
	if err != nil {
		return err
	}
	out := dto.Map(items, func(s messaging.Summary) dto.ConversationResponse { return dto.NewConversationSummary(s) })
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MessagingHandler) Start(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ucmsg.StartInput
	if err := bind(c, &req); err != nil {
		return err
	}

	conv, created, err := h.uc.Start(c.Context(), a.ID, a.Role, req)
	if err != nil {
		return err
	}
	if created {
		return response.Created(c, dto.NewConversationResponse(conv))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationResponse(conv))
}

func (h *MessagingHandler) Messages(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.Messages(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	out := dto.Map(items, func(m messaging.Message) dto.MessageResponse { return dto.NewMessageResponse(m) })
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

// Send accepts JSON or multipart. An attachment requires multipart.
func (h *MessagingHandler) Send(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucmsg.SendInput
	if err := bind(c, &req); err != nil {
		return err
	}
	attachment, closeFile, err := formFile(c, "attachment")
	defer closeFile()
	if err != nil {
		return err
	}

	m, err := h.uc.Send(c.Context(), a.ID, id, req, attachment)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewMessageResponse(m))
}

func (h *MessagingHandler) UnreadCount(c fiber.Ctx) error {
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

func (h *MessagingHandler) Attachment(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.Attachment(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return sendDownload(c, d)
}
