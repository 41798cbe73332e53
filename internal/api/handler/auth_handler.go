package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/api/metrics"
	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
)

type AuthHandler struct {
	auth    ports.AuthService
	admins  ports.AdminService
	cookies CookieConfig
	log     zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, admins ports.AdminService, cookies CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, admins: admins, cookies: cookies, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Admin   *domain.Admin `json:"admin"`
}

type adminResponse struct {
	Admin *domain.Admin `json:"admin"`
}

type setupRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Login authenticates an administrator and opens a cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_request").Inc()
		return err
	}

	sess, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	h.cookies.setSession(c, sess.AuthCookie, sess.UserCookie)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   sess.Token,
		Admin:   sess.Admin,
	})
}

// Me returns the administrator behind the session cookie.
//
// @Summary      Current administrator
// @Tags         auth
// @Produce      json
// @Success      200   {object}  adminResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		ck, err := c.Cookie(middleware.AuthCookie)
		if err != nil || ck.Value == "" {
			return domain.ErrUnauthenticated
		}
		if claims, err = h.auth.Resolve(ctx, ck.Value); err != nil {
			return err
		}
	}

	admin, err := h.auth.Me(ctx, claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{Admin: admin})
}

// Logout clears the session cookies and sends the browser to the login page.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Router       /api/auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	var raw string
	if ck, err := c.Cookie(middleware.AuthCookie); err == nil {
		raw = ck.Value
	}

	if err := h.auth.Logout(c.Request().Context(), raw); err != nil {
		h.log.Error().Err(err).Msg("logout: token not revoked")
	}

	h.cookies.clearSession(c)
	metrics.LogoutsTotal.Inc()
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Setup creates the first administrator account.
//
// @Summary      First-run setup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      setupRequest  true  "First administrator"
// @Success      201   {object}  adminResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/setup [post]
func (h *AuthHandler) Setup(c echo.Context) error {
	var req setupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.admins.Setup(c.Request().Context(), ports.CreateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, adminResponse{Admin: admin})
}
