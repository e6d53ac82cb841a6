// cmd/layoutd/main.go
//
// layoutd – layout template service entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (host-wide file → .env fallback).
//
//  2. Load configuration (YAML + LAYOUTD_ env), then start the daily
//     rotating logger (tees to console when running in a TTY).
//
//  3. Resolve Vault references in secrets, open the template store when a
//     DSN is configured, and migrate its table.
//
//  4. Build the widget registry (stock kinds + configured kinds) and the
//     engine.
//
//  5. Register built-in templates, then templates from the configured
//     directories (files override built-ins with the same id), then
//     optionally preload every stored template.
//
//  6. Serve the JSON API with /metrics until SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/yanizio/layoutkit/internal/api"
	"github.com/yanizio/layoutkit/internal/catalog"
	"github.com/yanizio/layoutkit/internal/config"
	"github.com/yanizio/layoutkit/internal/database"
	"github.com/yanizio/layoutkit/internal/definition"
	"github.com/yanizio/layoutkit/internal/engine"
	"github.com/yanizio/layoutkit/internal/layout"
	"github.com/yanizio/layoutkit/internal/logger"
	"github.com/yanizio/layoutkit/internal/middleware"
	"github.com/yanizio/layoutkit/internal/requestinfo"
	"github.com/yanizio/layoutkit/internal/server"
	"github.com/yanizio/layoutkit/internal/store"
	"github.com/yanizio/layoutkit/internal/vault"
	"github.com/yanizio/layoutkit/internal/widget"
)

const serverEnvPath = "/usr/local/etc/layoutd/layoutd.env"

// loadEnv prefers the host-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is an interactive terminal.
func runningInTTY() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

func main() {
	loadEnv()
	zap.ReplaceGlobals(logger.Console(false).Desugar())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.S().Errorw("layoutd exited", "err", err)
		_ = zap.S().Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Config + logger ─────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level, runningInTTY())
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 2.  Secrets + store ─────────────────────────────────────────────
	//
	var src catalog.Source
	if cfg.Database.Enabled() {
		db := cfg.Database
		if cfg.Vault.Enabled {
			vc, err := vault.New()
			if err != nil {
				return err
			}
			if db.Password, err = vc.Resolve(ctx, db.Password); err != nil {
				return fmt.Errorf("resolve database password: %w", err)
			}
		} else if vault.IsRef(db.Password) {
			return fmt.Errorf("database password is a Vault reference but vault.enabled is false")
		}

		log.Infow("connecting to template store", "driver", db.Driver)
		conn, err := database.Open(db.Driver, db.ConnString())
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
		defer conn.Close()

		st := store.New(conn)
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate store: %w", err)
		}
		src = st
		log.Infow("template store online")
	}

	//
	// ── 3.  Widget kinds + engine ───────────────────────────────────────
	//
	kinds := widget.NewRegistry[string]()
	if cfg.Widgets.Builtins {
		widget.RegisterBuiltins(kinds)
	}
	for kind, impl := range cfg.Widgets.Kinds {
		if err := kinds.Register(kind, impl); err != nil {
			return fmt.Errorf("widget kind %q: %w", kind, err)
		}
	}
	eng := engine.New(kinds, engine.WithLogger(log), engine.WithDefaults(cfg.Templates.ApplyDefaults))

	//
	// ── 4.  Template definitions ────────────────────────────────────────
	//
	if cfg.Templates.Builtins {
		builtins, err := definition.Builtins()
		if err != nil {
			return fmt.Errorf("load built-in templates: %w", err)
		}
		registerAll(eng, log, builtins)
	}
	if len(cfg.Templates.Dirs) > 0 {
		files, err := definition.LoadDirs(cfg.Templates.Dirs)
		if err != nil {
			return fmt.Errorf("load template dirs: %w", err)
		}
		registerAll(eng, log, files)
	}

	cat := catalog.New(eng, src, log)
	if cfg.Database.Preload {
		if _, err := cat.Preload(ctx); err != nil {
			return fmt.Errorf("preload store: %w", err)
		}
	}
	log.Infow("templates ready", "count", len(eng.All()), "widget_kinds", len(kinds.Kinds()))

	//
	// ── 5.  HTTP ────────────────────────────────────────────────────────
	//
	if cfg.HTTP.GeoIPDB != "" {
		if err := requestinfo.OpenGeo(cfg.HTTP.GeoIPDB); err != nil {
			log.Warnw("geoip database unavailable", "path", cfg.HTTP.GeoIPDB, "err", err)
		} else {
			defer requestinfo.CloseGeo()
		}
	}

	var h http.Handler = api.New(cat, kinds, log).Routes()
	if cfg.HTTP.ForceHTTPS {
		h = middleware.ForceHTTPS(h)
	}
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, h), log)
}

// registerAll registers ts, logging structural problems without rejecting
// the template so an author can still fetch and fix it.
func registerAll(eng *engine.Engine, log *zap.SugaredLogger, ts []*layout.Template) {
	for _, t := range ts {
		if res := eng.Validate(t); !res.Valid {
			log.Warnw("template has validation errors", "id", t.ID, "errors", res.Errors)
		}
		if err := eng.Register(t); err != nil {
			log.Warnw("template skipped", "id", t.ID, "err", err)
		}
	}
}
