// Command spacetraveling serves or builds the spacetraveling blog listing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/eringen/spacetraveling"
)

// version is set at build time via ldflags.
var version = "dev"

// CLI is the command line of spacetraveling.
type CLI struct {
	EnvFile string `name:"env-file" help:"Environment file loaded before reading configuration" default:".env"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the blog listing over HTTP"`
	Build   BuildCmd   `cmd:"" help:"Render the first page of posts into a static directory"`
	Seed    SeedCmd    `cmd:"" help:"Load documents from a JSON file into the local content database"`
	Version VersionCmd `cmd:"" name:"version" help:"Print the spacetraveling version"`
}

// runtime is bound into every command's Run method.
type runtime struct {
	ctx    context.Context
	cfg    *Config
	logger *slog.Logger
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("spacetraveling"),
		kong.Description("A blog listing backed by Prismic."),
		kong.UsageOnError(),
	)
	if kctx.Command() == "version" {
		kctx.FatalIfErrorf(kctx.Run())
		return
	}

	cfg, err := LoadConfig(cli.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := spacetraveling.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kctx.Run(&runtime{ctx: ctx, cfg: cfg, logger: logger}); err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}

// VersionCmd implements the 'version' command. It needs no configuration.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("spacetraveling %s\n", version)
	return nil
}
