package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	ucompany "jobboard/internal/usecase/company"
	useruc "jobboard/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler covers account and company moderation.
type AdminHandler struct {
	users     *useruc.Service
	companies *ucompany.Service
	files     dto.FileURLer
}

func NewAdminHandler(users *useruc.Service, companies *ucompany.Service, files dto.FileURLer) *AdminHandler {
	return &AdminHandler{users: users, companies: companies, files: files}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router, g Guards) {
	if r == nil {
		return
	}

	r.Get("/admin/users", g.Auth, g.Admin, h.ListUsers)
	r.Patch("/admin/users/:id", g.Auth, g.Admin, h.SetUserActive)
	r.Get("/admin/companies", g.Auth, g.Admin, h.ListCompanies)
	r.Patch("/admin/companies/:id", g.Auth, g.Admin, h.SetCompanyActive)
}

func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	limit, offset := pageParams(c)
	items, err := h.users.List(c.Context(), c.Query("role"), limit, offset)
	if err != nil {
		return err
	}
	out := dto.Map(items, func(u user.User) dto.UserResponse { return dto.NewUserResponse(u, h.files) })
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(out, limit, offset))
}

func (h *AdminHandler) SetUserActive(c fiber.Ctx) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req activeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	active, err := req.value()
	if err != nil {
		return err
	}

	u, err := h.users.SetActive(c.Context(), a.ID, id, active)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u, h.files))
}

func (h *AdminHandler) ListCompanies(c fiber.Ctx) error {
	limit, offset := pageParams(c)
	items, err := h.companies.List(c.Context(), c.Query("q"), true, limit, offset)
	if err != nil {
		return err
	}
	out := dto.Map(items, func(v company.Company) dto.CompanyResponse { return dto.NewCompanyResponse(v, h.files) })
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPage(out, limit, offset))
}

func (h *AdminHandler) SetCompanyActive(c fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req activeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	active, err := req.value()
	if err != nil {
		return err
	}

	co, err := h.companies.SetActive(c.Context(), id, active)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(co, h.files))
}
