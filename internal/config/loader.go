// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/layoutd.yaml` (optional; built-in defaults apply without it).
  3. Environment variables prefixed `LAYOUTD_`, where `__` maps to “.”
     (e.g., `LAYOUTD_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled over `Defaults()`, validated,
and enriched with the runtime root path.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span:  final “config loaded” with key highlights.
  • Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/layoutd.yaml`,
    so `go run ./cmd/layoutd` works from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix = "LAYOUTD_"
	confFile  = "layoutd.yaml"
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves LAYOUTD_ROOT or climbs directories until
// conf/layoutd.yaml is found.  Falls back to the working directory.
func rootDir() string {
	if r := os.Getenv("LAYOUTD_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", confFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root directory and loads from it.
func Load() (*Config, error) { return LoadFrom(rootDir()) }

// LoadFrom reads .env, YAML, and env overrides below root and validates
// the result.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", confFile)
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, fmt.Errorf("config: load %s: %w", yamlPath, err)
		}
		zap.S().Debugw("config yaml absent, using defaults", "file", yamlPath)
	} else {
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: LAYOUTD_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Paths.Root = root
	if !filepath.IsAbs(cfg.Log.Dir) {
		cfg.Log.Dir = filepath.Join(root, cfg.Log.Dir)
	}
	if cfg.HTTP.GeoIPDB != "" && !filepath.IsAbs(cfg.HTTP.GeoIPDB) {
		cfg.HTTP.GeoIPDB = filepath.Join(root, cfg.HTTP.GeoIPDB)
	}
	for i, d := range cfg.Templates.Dirs {
		if !filepath.IsAbs(d) {
			cfg.Templates.Dirs[i] = filepath.Join(root, d)
		}
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"template_dirs", len(cfg.Templates.Dirs),
		"store", cfg.Database.Enabled(),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}
