package spacetraveling

import (
	"log/slog"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// SiteConfig holds all configuration for the site server.
type SiteConfig struct {
	Name        string // Site name (default "spacetraveling")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for meta tags
	Lang        string // html lang attribute (default "pt-BR")

	Addr string // Listen address (default ":3000")

	CursorRateLimit  int           // next-page requests per IP per window (default 30)
	CursorRateWindow time.Duration // default 1min

	ShutdownTimeout time.Duration // graceful shutdown budget (default 10s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "spacetraveling"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Lang == "" {
		c.Lang = "pt-BR"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.CursorRateLimit <= 0 {
		c.CursorRateLimit = 30
	}
	if c.CursorRateWindow <= 0 {
		c.CursorRateWindow = time.Minute
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the structured logger used for request and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithRegistry exposes the registry's metrics on /metrics.
func WithRegistry(reg *prom.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithViews replaces the default templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithStaticDir sets the directory for user-owned static assets served
// under /public (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
