package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/review"
	"jobboard/internal/pkg/response"
	ucompany "jobboard/internal/usecase/company"
	ucreview "jobboard/internal/usecase/review"

	"github.com/gofiber/fiber/v3"
)

type CompanyHandler struct {
	uc      *ucompany.Service
	reviews *ucreview.Service
	files   dto.FileURLer
}

func NewCompanyHandler(uc *ucompany.Service, reviews *ucreview.Service, files dto.FileURLer) *CompanyHandler {
	return &CompanyHandler{uc: uc, reviews: reviews, files: files}
}

type companyDetailResponse struct {
	dto.CompanyResponse
	Rating review.Summary `json:"rating"`
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/companies", h.List)
	r.Post("/companies", g.Auth, g.Manager, h.Create)
	r.Get("/companies/mine", g.Auth, g.Manager, h.Mine)
	r.Get("/companies/:id", g.OptionalAuth, h.Get)
	r.Put("/companies/:id", g.Auth, g.Manager, h.Update)
	r.Post("/companies/:id/logo", g.Auth, g.Manager, h.UploadLogo)
}

func (h *CompanyHandler) List(c fiber.Ctx) error {
	limit, offset := pageParams(c)
	items, err := h.uc.List(c.Context(), c.Query("q"), false, limit, offset)
	if err != nil {
		return err
	}
	out := dto.Map(items, func(v company.Company) dto.CompanyResponse { return dto.NewCompanyResponse(v, h.files) })
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(out, limit, offset))
}

func (h *CompanyHandler) Create(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ucompany.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	co, err := h.uc.Create(c.Context(), a.ID, req)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewCompanyResponse(co, h.files))
}

func (h *CompanyHandler) Mine(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}

	co, err := h.uc.Mine(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(co, h.files))
}

// Get is public. Signed-in owners and admins also see an inactive company.
func (h *CompanyHandler) Get(c fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	a, _ := currentActor(c)

	co, err := h.uc.Get(c.Context(), id, a.ID, a.isAdmin())
	if err != nil {
		return err
	}
	sum, err := h.reviews.Summary(c.Context(), co.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, companyDetailResponse{
		CompanyResponse: dto.NewCompanyResponse(co, h.files),
		Rating:          sum,
	})
}

func (h *CompanyHandler) Update(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req ucompany.Input
	if err := bind(c, &req); err != nil {
		return err
	}

	co, err := h.uc.Update(c.Context(), a.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(co, h.files))
}

func (h *CompanyHandler) UploadLogo(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	f, closeFile, err := requiredFile(c, "logo")
	defer closeFile()
	if err != nil {
		return err
	}

	co, err := h.uc.UploadLogo(c.Context(), a.ID, id, f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(co, h.files))
}
