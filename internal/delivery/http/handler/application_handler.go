package handler

import (
	"bytes"
	"time"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/application"
	"jobboard/internal/export"
	"jobboard/internal/pkg/response"
	ucapp "jobboard/internal/usecase/application"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	uc  *ucapp.Service
	now func() time.Time
}

func NewApplicationHandler(uc *ucapp.Service) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, now: time.Now}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Post("/jobs/:id/applications", g.Auth, g.Candidate, h.Submit)
	r.Get("/applications", g.Auth, g.Candidate, h.ListOwn)
	r.Get("/applications/:id", g.Auth, g.Candidate, h.GetOwn)
	r.Post("/applications/:id/withdraw", g.Auth, g.Candidate, h.Withdraw)
	r.Get("/applications/:id/history", g.Auth, h.History)
	r.Get("/applications/:id/resume", g.Auth, h.Resume)

	r.Get("/manager/applications", g.Auth, g.Manager, h.ListManaged)
	r.Get("/manager/applications/export", g.Auth, g.Manager, h.ExportManaged)
	r.Get("/manager/applications/:id", g.Auth, g.Manager, h.GetManaged)
	r.Patch("/manager/applications/:id", g.Auth, g.Manager, h.Update)

	r.Get("/admin/applications/export", g.Auth, g.Admin, h.ExportAll)
}

func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucapp.SubmitInput
	if err := bind(c, &req); err != nil {
		return err
	}

	d, err := h.uc.Submit(c.Context(), a.ID, jobID, req)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewApplicationResponse(d))
}

func (h *ApplicationHandler) ListOwn(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)

	items, err := h.uc.ListOwn(c.Context(), a.ID, c.Query("status"), limit, offset)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(h.render(items), limit, offset))
}

func (h *ApplicationHandler) GetOwn(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.GetOwn(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(d))
}

func (h *ApplicationHandler) Withdraw(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.Withdraw(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(d))
}

func (h *ApplicationHandler) History(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.History(c.Context(), a.ID, a.isAdmin(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewHistoryResponse))
}

// Resume downloads the resume snapshot for the applicant, the managing
// manager or an admin.
func (h *ApplicationHandler) Resume(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.ResumeFile(c.Context(), a.ID, a.isAdmin(), id)
	if err != nil {
		return err
	}
	return sendDownload(c, d)
}

func (h *ApplicationHandler) ListManaged(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	jobID, err := queryUUID(c, "job_id")
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)

	items, err := h.uc.ListManaged(c.Context(), a.ID, jobID, c.Query("status"), limit, offset)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(h.render(items), limit, offset))
}

func (h *ApplicationHandler) GetManaged(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.GetManaged(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(d))
}

func (h *ApplicationHandler) Update(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucapp.UpdateInput
	if err := bind(c, &req); err != nil {
		return err
	}

	d, err := h.uc.Update(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(d))
}

func (h *ApplicationHandler) ExportManaged(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	rows, err := h.uc.ExportManaged(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return h.sendCSV(c, "company", rows)
}

func (h *ApplicationHandler) ExportAll(c fiber.Ctx) error {
	rows, err := h.uc.ExportAll(c.Context())
	if err != nil {
		return err
	}
	return h.sendCSV(c, "all", rows)
}

func (h *ApplicationHandler) sendCSV(c fiber.Ctx, scope string, rows []application.Detail) error {
	var buf bytes.Buffer
	if err := export.WriteApplications(&buf, rows); err != nil {
		return err
	}
	c.Attachment(export.Filename(scope, h.now().UTC().Format(export.DateLayout)))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *ApplicationHandler) render(items []application.Detail) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, dto.NewApplicationResponse(d))
	}
	return out
}
