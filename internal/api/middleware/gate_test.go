package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/security/token"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		method, path string
		want         Route
	}{
		{http.MethodGet, "/", RoutePublic},
		{http.MethodGet, "/eventos", RoutePublic},
		{http.MethodGet, "/admin", RouteAdminUI},
		{http.MethodGet, "/admin/", RouteAdminUI},
		{http.MethodGet, "/admin/dashboard", RouteAdminUI},
		{http.MethodGet, "/admin/login", RoutePublic},
		{http.MethodGet, "/admin/login/", RoutePublic},
		{http.MethodGet, "/administrator", RoutePublic},
		{http.MethodGet, "/admin/../admin/x", RouteAdminUI},
		{http.MethodPost, "/api/auth/login", RoutePublic},
		{http.MethodGet, "/api/auth/logout", RoutePublic},
		{http.MethodPost, "/api/auth/setup", RoutePublic},
		{http.MethodGet, "/api/health/ready", RoutePublic},
		{http.MethodGet, "/api/auth/me", RouteProtectedAPI},
		{http.MethodGet, "/api/eventos", RoutePublic},
		{http.MethodHead, "/api/eventos/ev-1", RoutePublic},
		{http.MethodPost, "/api/eventos", RouteProtectedAPI},
		{http.MethodDelete, "/api/anuncios/a-1", RouteProtectedAPI},
		{http.MethodGet, "/api/eventosx", RouteProtectedAPI},
		{http.MethodGet, "/api/eventos/../admins", RouteProtectedAPI},
		{http.MethodGet, "/api/admins", RouteProtectedAPI},
		{http.MethodPost, "/api/uploads", RouteProtectedAPI},
	}
	for _, tc := range cases {
		if got := Classify(tc.method, tc.path); got != tc.want {
			t.Errorf("Classify(%s %s) = %s, want %s", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		route Route
		auth  bool
		want  Outcome
	}{
		{RoutePublic, false, Pass},
		{RoutePublic, true, Pass},
		{RouteAdminUI, false, Redirect},
		{RouteAdminUI, true, Pass},
		{RouteProtectedAPI, false, Unauthorized},
		{RouteProtectedAPI, true, Pass},
	}
	for _, tc := range cases {
		if got := Decide(tc.route, tc.auth); got != tc.want {
			t.Errorf("Decide(%s, %v) = %s, want %s", tc.route, tc.auth, got, tc.want)
		}
	}
}

type stubResolver struct {
	valid string
}

func (r stubResolver) Resolve(_ context.Context, cookie string) (*token.Claims, error) {
	if cookie == r.valid {
		return &token.Claims{AdminID: "adm-1", Role: "admin"}, nil
	}
	return nil, errors.New("invalid session")
}

func runGate(t *testing.T, method, target, cookie string) (*httptest.ResponseRecorder, bool, *token.Claims) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		called bool
		claims *token.Claims
	)
	h := Gate(stubResolver{valid: "good"}, zerolog.Nop())(func(c echo.Context) error {
		called = true
		claims, _ = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called, claims
}

func TestGate_RedirectsAdminUIWithoutSession(t *testing.T) {
	rec, called, _ := runGate(t, http.MethodGet, "/admin/dashboard", "")
	if called {
		t.Fatalf("next handler must not run")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/admin/login?from=%2Fadmin%2Fdashboard" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestGate_InvalidCookieCountsAsAbsent(t *testing.T) {
	rec, called, _ := runGate(t, http.MethodGet, "/admin/dashboard", "garbage")
	if called || rec.Code != http.StatusFound {
		t.Fatalf("garbage cookie must be redirected, got %d called=%v", rec.Code, called)
	}

	rec, called, _ = runGate(t, http.MethodGet, "/api/auth/me", "garbage")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage cookie must be rejected, got %d called=%v", rec.Code, called)
	}
}

func TestGate_UnauthorizedJSONForProtectedAPI(t *testing.T) {
	rec, called, _ := runGate(t, http.MethodPost, "/api/eventos", "")
	if called {
		t.Fatalf("next handler must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderLocation) != "" {
		t.Fatalf("API rejections must not redirect")
	}
}

func TestGate_PassesPublicAndStoresClaims(t *testing.T) {
	rec, called, claims := runGate(t, http.MethodGet, "/api/eventos", "")
	if !called || rec.Code != http.StatusOK || claims != nil {
		t.Fatalf("public read should pass anonymously, got %d called=%v claims=%v", rec.Code, called, claims)
	}

	rec, called, claims = runGate(t, http.MethodDelete, "/api/eventos/ev-1", "good")
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("authenticated delete should pass, got %d", rec.Code)
	}
	if claims == nil || claims.AdminID != "adm-1" {
		t.Fatalf("claims not stored on context: %+v", claims)
	}

	_, called, claims = runGate(t, http.MethodGet, "/api/galeria", "garbage")
	if !called || claims != nil {
		t.Fatalf("invalid cookie on a public route should pass without claims")
	}
}
