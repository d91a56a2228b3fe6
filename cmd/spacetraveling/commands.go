package main

import (
	"context"
	"fmt"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/spacetraveling"
	"github.com/eringen/spacetraveling/localcms"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr   string `help:"Listen address, overrides ADDR"`
	Static string `help:"Directory served under /public" default:"public" type:"path"`
}

func (s *ServeCmd) Run(rt *runtime) error {
	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	preparer, closeContent, err := newPreparer(rt, reg)
	if err != nil {
		return err
	}
	defer closeContent()

	site := siteConfig(rt.cfg)
	if s.Addr != "" {
		site.Addr = s.Addr
	}
	app := spacetraveling.New(site, preparer,
		spacetraveling.WithLogger(rt.logger),
		spacetraveling.WithRegistry(reg),
		spacetraveling.WithStaticDir(s.Static),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		_ = app.Close()
		return err
	case <-rt.ctx.Done():
		rt.logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Out string `short:"o" help:"Output directory" default:"dist" type:"path"`
}

func (b *BuildCmd) Run(rt *runtime) error {
	preparer, closeContent, err := newPreparer(rt, nil)
	if err != nil {
		return err
	}
	defer closeContent()

	app := spacetraveling.New(siteConfig(rt.cfg), preparer, spacetraveling.WithLogger(rt.logger))
	defer app.Close()

	start := time.Now()
	if err := app.Build(rt.ctx, b.Out); err != nil {
		return err
	}
	rt.logger.Info("build finished", "out", b.Out, "elapsed", time.Since(start))
	return nil
}

// SeedCmd implements the 'seed' command.
type SeedCmd struct {
	File string `short:"f" help:"JSON array of documents" required:"" type:"existingfile"`
}

func (s *SeedCmd) Run(rt *runtime) error {
	f, err := os.Open(s.File)
	if err != nil {
		return err
	}
	defer f.Close()

	store, err := localcms.Open(rt.cfg.Content.DatabasePath, localcms.WithLogger(rt.logger))
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Seed(rt.ctx, f)
	if err != nil {
		return fmt.Errorf("seed %s: %w", s.File, err)
	}
	rt.logger.Info("documents seeded", "count", n, "database", rt.cfg.Content.DatabasePath)
	return nil
}

func siteConfig(cfg *Config) spacetraveling.SiteConfig {
	return spacetraveling.SiteConfig{
		Name:            cfg.Site.Name,
		URL:             cfg.Site.URL,
		Description:     cfg.Site.Description,
		Lang:            cfg.Locale,
		Addr:            cfg.Site.Addr,
		CursorRateLimit: cfg.CursorRateLimit,
	}
}
