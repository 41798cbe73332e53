package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/api/middleware"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	// Secure is set in production so cookies only travel over HTTPS.
	Secure bool
	// MaxAge matches the token lifetime.
	MaxAge time.Duration
}

func (cc CookieConfig) session(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cc.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (cc CookieConfig) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (cc CookieConfig) setSession(c echo.Context, authValue, userValue string) {
	c.SetCookie(cc.session(middleware.AuthCookie, authValue))
	c.SetCookie(cc.session(middleware.UserCookie, userValue))
}

func (cc CookieConfig) clearSession(c echo.Context) {
	c.SetCookie(cc.expired(middleware.AuthCookie))
	c.SetCookie(cc.expired(middleware.UserCookie))
}
