package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/security/token"
)

// ctxActor returns the identity of the administrator behind the request. The
// gate has already rejected anonymous calls to protected routes, so missing
// claims here means the route was wired without it.
func ctxActor(c echo.Context) (token.Identity, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return token.Identity{}, domain.ErrUnauthenticated
	}
	return claims.Identity(), nil
}
