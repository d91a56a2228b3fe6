// Package spacetraveling serves the spacetraveling blog listing page.
// Posts come from a headless CMS through a posts.Preparer and are rendered
// with templ components, either per request or once into a static build.
package spacetraveling

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/spacetraveling/metrics"
	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/views"
)

// PagePreparer produces the render input of the listing page.
type PagePreparer interface {
	Prepare(ctx context.Context) (posts.PostPagination, error)
	PrepareNext(ctx context.Context, cursor string) (posts.PostPagination, error)
}

// ViewFuncs holds the templ components the app renders. Replace them with
// WithViews to customize the markup.
type ViewFuncs struct {
	Home        func(cfg views.SiteConfig, page posts.PostPagination) templ.Component
	PostList    func(page posts.PostPagination) templ.Component
	NotFound    func(cfg views.SiteConfig) templ.Component
	ServerError func(cfg views.SiteConfig) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		PostList:    views.PostList,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App wires the preparer, handlers, middleware and templates together.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Preparer PagePreparer
	Views    ViewFuncs

	logger        *slog.Logger
	registry      *prom.Registry
	cursorLimiter *RateLimiter
	staticDir     string
}

// New creates an App rendering pages prepared by p.
func New(cfg SiteConfig, p PagePreparer, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Preparer:  p,
		Views:     DefaultViews(),
		logger:    slog.New(slog.DiscardHandler),
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.cursorLimiter = NewRateLimiter(cfg.CursorRateLimit, cfg.CursorRateWindow)
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Start serves HTTP on Config.Addr until Shutdown is called.
func (a *App) Start() error {
	a.logger.Info("listening", "addr", a.Config.Addr, "site", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and releases background resources.
func (a *App) Shutdown(ctx context.Context) error {
	defer a.Close()
	return a.Echo.Shutdown(ctx)
}

// Close releases background resources without stopping the server.
func (a *App) Close() error {
	a.cursorLimiter.Close()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.FileServer(http.FS(embeddedFS)))
	e.GET(LogoPath, embeddedHandler)
	e.GET("/public/home.css", embeddedHandler)

	// User's static assets (htmx.min.js, favicon, ...)
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)

	e.GET("/", a.handleHome)
	e.GET("/api/posts", a.handleAPIPosts)

	if a.registry != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(a.registry)))
	}
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		LogoPath:    LogoPath,
		Lang:        a.Config.Lang,
	}
}
