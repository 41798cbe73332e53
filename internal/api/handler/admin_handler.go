package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
)

type AdminHandler struct {
	admins ports.AdminService
}

func NewAdminHandler(admins ports.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

type createAdminRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type updateAdminRequest struct {
	ID       string  `param:"id" json:"-"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type adminListResponse struct {
	Items []*domain.Admin `json:"items"`
}

// List returns every administrator.
//
// @Summary      List administrators
// @Tags         admins
// @Produce      json
// @Success      200   {object}  adminListResponse
// @Router       /api/admins [get]
func (h *AdminHandler) List(c echo.Context) error {
	admins, err := h.admins.List(c.Request().Context())
	if err != nil {
		return err
	}
	if admins == nil {
		admins = []*domain.Admin{}
	}
	return c.JSON(http.StatusOK, adminListResponse{Items: admins})
}

// Create adds an administrator on behalf of the caller.
//
// @Summary      Create administrator
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        body  body      createAdminRequest  true  "New administrator"
// @Success      201   {object}  adminResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Router       /api/admins [post]
func (h *AdminHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.admins.Create(c.Request().Context(), actor, ports.CreateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, adminResponse{Admin: admin})
}

// Update changes an administrator's name, email or password.
//
// @Summary      Update administrator
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Administrator ID"
// @Param        body  body      updateAdminRequest  true  "Fields to change"
// @Success      200   {object}  adminResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admins/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Name == nil && req.Email == nil && req.Password == nil {
		return domain.NewValidationError("body", "at least one field must be provided")
	}

	admin, err := h.admins.Update(c.Request().Context(), actor, req.ID, domain.AdminUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{Admin: admin})
}
