package api

import (
	"fmt"
	"net"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/guiatnn/portal/internal/api/handler"
	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
)

// Deps is everything the HTTP layer needs. Images, Limiter and the metric
// registries are optional.
type Deps struct {
	Auth     ports.AuthService
	Admins   ports.AdminService
	Events   ports.ContentService[domain.Event]
	Business ports.ContentService[domain.Business]
	Photos   ports.ContentService[domain.Photo]
	Ads      ports.ContentService[domain.Ad]
	Images   ports.ImageStore
	Limiter  *middleware.IPRateLimiter
	Cookies  handler.CookieConfig
	Checks   map[string]handler.Check
	AdminUI  string
	Log      zerolog.Logger
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer

	// IPExtractor resolves the client address for rate limiting and logs.
	// Defaults to the connection peer, ignoring forwarding headers.
	IPExtractor echo.IPExtractor
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Binder = handler.NewBinder()
	e.IPExtractor = d.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registry := d.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Gate(d.Auth, d.Log))

	api := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Admins, d.Cookies, d.Log)
	var loginLimit []echo.MiddlewareFunc
	if d.Limiter != nil {
		loginLimit = append(loginLimit, middleware.RateLimit(d.Limiter))
	}
	api.POST("/auth/login", authHandler.Login, loginLimit...)
	api.GET("/auth/me", authHandler.Me)
	api.GET("/auth/logout", authHandler.Logout)
	api.POST("/auth/setup", authHandler.Setup, loginLimit...)

	requireAdmin := middleware.RBAC(domain.RoleAdmin)

	// --- Administrators ---
	adminHandler := handler.NewAdminHandler(d.Admins)
	admins := api.Group("/admins", requireAdmin)
	admins.GET("", adminHandler.List)
	admins.POST("", adminHandler.Create)
	admins.PUT("/:id", adminHandler.Update)

	// --- Content: public reads, admin writes ---
	handler.NewEventHandler(d.Events).Register(api, requireAdmin)
	handler.NewBusinessHandler(d.Business).Register(api, requireAdmin)
	handler.NewPhotoHandler(d.Photos).Register(api, requireAdmin)
	handler.NewAdHandler(d.Ads).Register(api, requireAdmin)

	uploadHandler := handler.NewUploadHandler(d.Images)
	api.POST("/uploads", uploadHandler.Presign, requireAdmin)

	// --- Health probes (no auth required) ---
	api.GET("/health", handler.NewHealthHandler().Liveness)
	api.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// --- Admin panel ---
	if d.AdminUI != "" {
		e.Group("/admin").Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:  d.AdminUI,
			HTML5: true,
		}))
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// ClientIPExtractor returns the extractor used to identify clients. Without
// trusted proxies the connection peer is used and forwarding headers are
// ignored. With them, X-Forwarded-For is honoured only when the request
// arrives from one of the given CIDR ranges.
func ClientIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
