package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/flipiri/flipiri-api/docs"
	"github.com/flipiri/flipiri-api/internal/api/handler"
	"github.com/flipiri/flipiri-api/internal/api/middleware"
	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Logger        zerolog.Logger
	Production    bool
	ClientURL     string
	MaxImageBytes int64

	Auth       ports.AuthService
	Tokens     ports.TokenVerifier
	Accounts   ports.AccountResolver
	Carrier    *session.Carrier
	Projects   ports.ProjectService
	Clients    ports.ClientService
	Contact    ports.ContactService
	Newsletter ports.NewsletterService

	Checks []handler.DependencyCheck

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger, d.Production)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(d.MaxImageBytes)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	auth := handler.NewAuthHandler(d.Auth, d.Carrier)
	projects := handler.NewProjectHandler(d.Projects, d.MaxImageBytes)
	clients := handler.NewClientHandler(d.Clients, d.MaxImageBytes)
	contact := handler.NewContactHandler(d.Contact)
	newsletter := handler.NewNewsletterHandler(d.Newsletter)
	health := handler.NewHealthHandler(d.Checks...)

	guard := middleware.Authenticate(d.Tokens, d.Accounts)
	w := handler.Wrap

	// --- Operational ---
	e.GET("/", health.Banner)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", health.Liveness)
	api.GET("/health/ready", health.Readiness)

	// --- Auth ---
	api.POST("/auth/register", w(auth.Register))
	api.POST("/auth/login", w(auth.Login))
	api.POST("/auth/logout", w(auth.Logout))
	api.GET("/auth/me", w(auth.Me), guard)

	// --- Public site ---
	api.GET("/projects", w(projects.List))
	api.GET("/projects/:id", w(projects.Get))
	api.GET("/clients", w(clients.List))
	api.GET("/clients/:id", w(clients.Get))
	api.POST("/contact", w(contact.Submit))
	api.POST("/newsletter/subscribe", w(newsletter.Subscribe))

	// --- Admin console ---
	api.POST("/admin/login", w(auth.AdminLogin))

	admin := api.Group("/admin", guard, middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/projects", w(projects.Create))
	admin.GET("/projects", w(projects.List))
	admin.GET("/projects/:id", w(projects.Get))
	admin.PUT("/projects/:id", w(projects.Update))
	admin.DELETE("/projects/:id", w(projects.Delete))

	admin.POST("/clients", w(clients.Create))
	admin.GET("/clients", w(clients.List))
	admin.GET("/clients/:id", w(clients.Get))
	admin.PUT("/clients/:id", w(clients.Update))
	admin.DELETE("/clients/:id", w(clients.Delete))

	admin.GET("/contact", w(contact.List))
	admin.GET("/contact/:id", w(contact.Get))
	admin.DELETE("/contact/:id", w(contact.Delete))

	admin.GET("/newsletters", w(newsletter.List))
	admin.DELETE("/newsletters/:id", w(newsletter.Delete))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// bodyLimit leaves one MiB of headroom for the text fields of an upload form.
func bodyLimit(maxImageBytes int64) string {
	if maxImageBytes <= 0 {
		maxImageBytes = handler.DefaultMaxImageBytes
	}
	return fmt.Sprintf("%dK", maxImageBytes/1024+1024)
}
