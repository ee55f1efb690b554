package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/resume"
	"jobboard/internal/pkg/response"
	ucresume "jobboard/internal/usecase/resume"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	uc *ucresume.Service
}

func NewResumeHandler(uc *ucresume.Service) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/resumes", g.Auth, g.Candidate, h.List)
	r.Post("/resumes", g.Auth, g.Candidate, h.Upload)
	r.Get("/resumes/:id", g.Auth, g.Candidate, h.Get)
	r.Get("/resumes/:id/file", g.Auth, g.Candidate, h.Download)
	r.Put("/resumes/:id", g.Auth, g.Candidate, h.Update)
	r.Delete("/resumes/:id", g.Auth, g.Candidate, h.Delete)
	r.Post("/resumes/:id/default", g.Auth, g.Candidate, h.SetDefault)

	r.Get("/resumes/:id/enhancements", g.Auth, g.Candidate, h.Enhancements)
	r.Post("/resumes/:id/enhancements", g.Auth, g.Candidate, h.AddEnhancement)
	r.Patch("/enhancements/:id", g.Auth, g.Candidate, h.SetEnhancementStatus)
	r.Delete("/enhancements/:id", g.Auth, g.Candidate, h.DeleteEnhancement)
}

func (h *ResumeHandler) List(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.render(items))
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	v, err := h.uc.Get(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeResponse(v))
}

func (h *ResumeHandler) Download(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.Download(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return sendDownload(c, d)
}

// Upload expects multipart with a "file" part plus optional title and notes.
func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	req := ucresume.UploadInput{Title: c.FormValue("title"), Notes: c.FormValue("notes")}
	f, closeFile, err := requiredFile(c, "file")
	defer closeFile()
	if err != nil {
		return err
	}

	v, err := h.uc.Upload(c.Context(), a.ID, req, f)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewResumeResponse(v))
}

func (h *ResumeHandler) Update(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucresume.UpdateInput
	if err := bind(c, &req); err != nil {
		return err
	}

	v, err := h.uc.Update(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeResponse(v))
}

func (h *ResumeHandler) SetDefault(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	v, err := h.uc.SetDefault(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeResponse(v))
}

func (h *ResumeHandler) Delete(c fiber.Ctx) error {
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

func (h *ResumeHandler) Enhancements(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.Enhancements(c.Context(), a.ID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.Map(items, dto.NewEnhancementResponse))
}

func (h *ResumeHandler) AddEnhancement(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucresume.EnhancementInput
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.uc.AddEnhancement(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewEnhancementResponse(e))
}

func (h *ResumeHandler) SetEnhancementStatus(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucresume.StatusInput
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.uc.SetEnhancementStatus(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEnhancementResponse(e))
}

func (h *ResumeHandler) DeleteEnhancement(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteEnhancement(c.Context(), a.ID, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}

func (h *ResumeHandler) render(items []resume.Version) []dto.ResumeResponse {
	return dto.Map(items, func(v resume.Version) dto.ResumeResponse { return dto.NewResumeResponse(v) })
}
