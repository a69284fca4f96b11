package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/lib/validate"
	kamarumw "kamaru/internal/middleware"
	httprouters "kamaru/internal/transport/http"
	"kamaru/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// CustomValidator reports failures as validation errors so handlers render
// them like any other bad input.
type CustomValidator struct{}

func (cv *CustomValidator) Validate(i interface{}) error {
	return validate.Struct(i)
}

// HealthChecker is pinged by /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Options struct {
	// Addr is host:port as accepted by net.Listen.
	Addr           string
	RequestTimeout time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// UploadsDir is served under UploadsPath when set.
	UploadsDir  string
	UploadsPath string
	Debug       bool
	Checks      map[string]HealthChecker
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &CustomValidator{}
	e.HTTPErrorHandler = errorHandler(log)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Recover())
	e.Use(kamarumw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogMethod:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	if opts.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: opts.RequestTimeout,
		}))
	}

	mux := http.NewServeMux()
	if opts.Debug {
		if err := statsviz.Register(mux); err != nil {
			log.Warn("statsviz registration failed", sl.Err(err))
		}
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// Echo exposes the underlying router, mostly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("addr", s.opts.Addr))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.opts.RateLimitRPS),
		Burst:     s.opts.RateLimitBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, response.FromStatus(http.StatusForbidden, "could not identify client"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, response.FromStatus(http.StatusTooManyRequests, "too many requests"))
		},
	})
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.opts.Checks))
	healthy := true

	for name, checker := range s.opts.Checks {
		if err := checker.HealthCheck(ctx); err != nil {
			s.log.Warn("health check failed", slog.String("component", name), sl.Err(err))
			checks[name] = "down"
			healthy = false
			continue
		}
		checks[name] = "up"
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, response.Response{Status: response.StatusError, Data: checks})
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(checks))
}

func (s *Server) BuildRouters() {
	limited := s.rateLimiter()

	s.e.GET("/health", s.health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.opts.Debug {
		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}
	}

	if s.opts.UploadsDir != "" {
		s.e.Static(s.opts.UploadsPath, s.opts.UploadsDir)
	}

	api := s.e.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", s.routers.Register)
		users.POST("/login", s.routers.Login, limited)
		users.POST("/refresh", s.routers.Refresh)
		users.POST("/logout", s.routers.Logout)
		users.POST("/forgot_password", s.routers.ForgotPassword, limited)
		users.POST("/reset_password", s.routers.ResetPassword, limited)
		users.GET("/profile", s.routers.Profile)

		admin := users.Group("/admin/users")
		admin.GET("", s.routers.ListUsers)
		admin.POST("", s.routers.CreateUser)
		admin.GET("/:id", s.routers.GetUser)
		admin.PUT("/:id", s.routers.UpdateUser)
		admin.DELETE("/:id", s.routers.DeleteUser)
	}

	events := api.Group("/events")
	{
		events.GET("", s.routers.ListEvents)
		events.GET("/:id", s.routers.GetEvent)
		events.POST("/admin", s.routers.CreateEvent)
		events.PUT("/admin/:id", s.routers.UpdateEvent)
		events.DELETE("/admin/:id", s.routers.DeleteEvent)
	}

	participants := api.Group("/participants")
	{
		participants.GET("/categories", s.routers.ListCategories)
		participants.POST("", s.routers.RegisterParticipant)
		participants.POST("/admin", s.routers.AdminRegisterParticipant)
		participants.GET("", s.routers.ListParticipants)
		participants.GET("/:id", s.routers.GetParticipant)
		participants.PUT("/:id", s.routers.UpdateParticipant)
		participants.DELETE("/:id", s.routers.DeleteParticipant)
	}

	gallery := api.Group("/gallery")
	{
		gallery.GET("", s.routers.ListGallery)
		gallery.GET("/:id", s.routers.GetGalleryImage)
		gallery.POST("/upload", s.routers.UploadGalleryImage)
		gallery.DELETE("/:id", s.routers.DeleteGalleryImage)
	}

	sysImages := api.Group("/sys_images")
	{
		sysImages.GET("/banners", s.routers.ListBanners)
		sysImages.GET("/:section", s.routers.GetSection)
		sysImages.POST("/upload", s.routers.UploadSystemImage)
		sysImages.POST("/banners/upload", s.routers.UploadBanner)
		sysImages.DELETE("/banners/:id", s.routers.DeleteBanner)
		sysImages.DELETE("/:id", s.routers.DeleteSystemImage)
	}

	videos := api.Group("/videos")
	{
		videos.GET("", s.routers.ListVideos)
		videos.GET("/:id", s.routers.GetVideo)
		videos.POST("/add", s.routers.AddVideo)
		videos.DELETE("/delete/:id", s.routers.DeleteVideo)
	}

	api.GET("/stats", s.routers.GetStats)
	api.POST("/newsletter/subscribe", s.routers.Subscribe, limited)
	api.POST("/contact", s.routers.Contact, limited)
}

// errorHandler renders errors returned to echo (unknown routes, body limits,
// timeouts, panics caught by Recover) in the API envelope.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		details := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				details = msg
			} else {
				details = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("unhandled error", slog.String("uri", c.Request().RequestURI), sl.Err(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, response.FromStatus(status, details))
		}

		if writeErr != nil {
			log.Error("failed to write error response", sl.Err(writeErr))
		}
	}
}
