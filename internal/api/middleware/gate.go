package middleware

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/api/metrics"
	"github.com/guiatnn/portal/internal/security/token"
)

const (
	// AuthCookie carries the encrypted session token.
	AuthCookie = "auth_token"
	// UserCookie carries the encrypted administrator profile.
	UserCookie = "user_data"
	// LoginPath is the admin panel's login page.
	LoginPath = "/admin/login"

	claimsKey = "claims"
)

// Route is the gate's classification of a request.
type Route int

const (
	RoutePublic Route = iota
	RouteAdminUI
	RouteProtectedAPI
)

func (r Route) String() string {
	switch r {
	case RouteAdminUI:
		return "admin_ui"
	case RouteProtectedAPI:
		return "protected_api"
	default:
		return "public"
	}
}

// Outcome is what the gate does with a classified request.
type Outcome int

const (
	Pass Outcome = iota
	Redirect
	Unauthorized
)

func (o Outcome) String() string {
	switch o {
	case Redirect:
		return "redirect"
	case Unauthorized:
		return "unauthorized"
	default:
		return "pass"
	}
}

// publicAPI lists API prefixes reachable without a session for any method.
var publicAPI = []string{
	"/api/auth/login",
	"/api/auth/logout",
	"/api/auth/setup",
	"/api/health",
}

// publicReadAPI lists API prefixes whose GET and HEAD requests are public.
var publicReadAPI = []string{
	"/api/eventos",
	"/api/comercios",
	"/api/galeria",
	"/api/anuncios",
}

// Classify decides which access rule applies to method and urlPath.
func Classify(method, urlPath string) Route {
	p := cleanPath(urlPath)

	switch {
	case underPrefix(p, LoginPath):
		return RoutePublic
	case underPrefix(p, "/admin"):
		return RouteAdminUI
	case underPrefix(p, "/api"):
		for _, prefix := range publicAPI {
			if underPrefix(p, prefix) {
				return RoutePublic
			}
		}
		if method == http.MethodGet || method == http.MethodHead {
			for _, prefix := range publicReadAPI {
				if underPrefix(p, prefix) {
					return RoutePublic
				}
			}
		}
		return RouteProtectedAPI
	default:
		return RoutePublic
	}
}

// Decide maps a route and the caller's session state to an outcome.
func Decide(route Route, authenticated bool) Outcome {
	if authenticated {
		return Pass
	}
	switch route {
	case RouteAdminUI:
		return Redirect
	case RouteProtectedAPI:
		return Unauthorized
	default:
		return Pass
	}
}

// SessionResolver turns the auth cookie value into verified claims.
type SessionResolver interface {
	Resolve(ctx context.Context, authCookie string) (*token.Claims, error)
}

// Gate guards the admin panel and the protected API. The session cookie is
// fully resolved; a cookie that fails to decrypt, verify or has been revoked
// counts as no session. Verified claims are stored on the context.
func Gate(resolver SessionResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := Classify(req.Method, req.URL.Path)

			authenticated := false
			if ck, err := c.Cookie(AuthCookie); err == nil && ck.Value != "" {
				claims, err := resolver.Resolve(req.Context(), ck.Value)
				if err == nil {
					WithClaims(c, claims)
					authenticated = true
				} else if route != RoutePublic {
					log.Debug().Err(err).Str("path", req.URL.Path).Msg("session rejected by gate")
				}
			}

			outcome := Decide(route, authenticated)
			if route != RoutePublic {
				metrics.GateDecisionsTotal.WithLabelValues(route.String(), outcome.String()).Inc()
			}

			switch outcome {
			case Redirect:
				return c.Redirect(http.StatusFound, LoginRedirect(req.URL.Path))
			case Unauthorized:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			return next(c)
		}
	}
}

// LoginRedirect builds the login URL that returns the user to from afterwards.
func LoginRedirect(from string) string {
	return LoginPath + "?" + url.Values{"from": {from}}.Encode()
}

// WithClaims attaches verified claims to the request context.
func WithClaims(c echo.Context, claims *token.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the claims stored by Gate, if the request carried a valid session.
func ClaimsFrom(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// underPrefix reports whether p equals prefix or lies below it.
func underPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
