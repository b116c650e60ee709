// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/stylevars/stylevars/internal/config"
	"github.com/stylevars/stylevars/internal/ctxlog"
	"github.com/stylevars/stylevars/internal/datamod"
	"github.com/stylevars/stylevars/internal/resolve"
	"github.com/stylevars/stylevars/internal/rewrite"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flags shared by every subcommand.
	rootFlagValues struct {
		configPath string
		verbose    bool
	}

	// session is the set of services one command invocation works with,
	// built from the effective configuration.
	session struct {
		cfg      *config.Config
		logger   *log.Logger
		resolver *resolve.FS
		loader   *datamod.Loader
		engine   *rewrite.Engine
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newSession loads configuration and builds the rewrite services. The returned
// context carries the session logger.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues) (context.Context, *session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return ctx, nil, err
	}

	level := cfg.LogLevel.String()
	if flags.verbose {
		level = config.LogLevelDebug.String()
	}
	logger := ctxlog.NewWithWriter(a.stderr, level)
	ctx = ctxlog.WithLogger(ctx, logger)

	loader, err := datamod.NewLoader(cfg.LoaderOptions())
	if err != nil {
		return ctx, nil, fmt.Errorf("create module loader: %w", err)
	}

	s := &session{
		cfg:      cfg,
		logger:   logger,
		resolver: resolve.NewFS(cfg.ResolveOptions()),
		loader:   loader,
		engine:   rewrite.New(loader, rewrite.Options{Concurrency: cfg.Concurrency}),
	}
	return ctx, s, nil
}

// pass runs one asynchronous rewrite pass through the engine's callback
// contract and waits for it, or for ctx to end.
func (s *session) pass(ctx context.Context, host rewrite.Host, path, content string) (string, error) {
	type outcome struct {
		result string
		err    error
	}
	done := make(chan outcome, 1)

	err := s.engine.Run(ctx, host, path, content, func(err error, result string) {
		done <- outcome{result: result, err: err}
	})
	if err != nil {
		return "", err
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
