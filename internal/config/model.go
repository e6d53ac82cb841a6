// internal/config/model.go
//
// Typed configuration model for layoutd.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                     – dotenv values,
//   • `conf/layoutd.yaml`                      – primary static file,
//   • `LAYOUTD_`-prefixed environment overrides – highest precedence.
//
// A database password of the form `vault:<mount>/<path>#<key>` is resolved
// through the Vault client after loading, so the rest of the program only
// ever sees plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • `Paths` is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"fmt"
	"strings"
)

//
// HTTP section
//

// HTTP holds web-server tunables.  GeoIPDB optionally points at a
// GeoLite2-City file used to tag access-log lines with a country.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	GeoIPDB    string `koanf:"geoip_db"`
}

//
// Templates section
//

// Templates lists where template documents come from.  Dirs are ordered
// by precedence, highest first.
type Templates struct {
	Dirs     []string `koanf:"dirs"`
	Builtins bool     `koanf:"builtins"`
	// ApplyDefaults fills declared-but-absent variables from their
	// defaultValue during processing.
	ApplyDefaults bool `koanf:"apply_defaults"`
}

//
// Widgets section
//

// Widgets adds host-specific kinds on top of the built-in set.  Keys are
// kind tags, values are renderer identifiers.
type Widgets struct {
	Builtins bool              `koanf:"builtins"`
	Kinds    map[string]string `koanf:"kinds"`
}

//
// Database section
//

// Database configures the optional template store.  An empty DSN means
// the daemon runs purely from files.  When Password is set and DSN
// contains a single %s verb, the password is spliced into it.
type Database struct {
	Driver   string `koanf:"driver"   validate:"omitempty,oneof=mysql sqlite3"`
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
	Preload  bool   `koanf:"preload"`
}

// Enabled reports whether a store should be opened.
func (d Database) Enabled() bool { return d.DSN != "" }

// ConnString returns the DSN with the password applied.
func (d Database) ConnString() string {
	if d.Password != "" && strings.Count(d.DSN, "%s") == 1 {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}

//
// Vault section
//

// Vault toggles secret resolution.  Address and token come from the
// standard VAULT_ADDR and VAULT_TOKEN variables.
type Vault struct {
	Enabled bool `koanf:"enabled"`
}

//
// Log section
//

// Log configures the file logger.  A relative Dir is resolved against
// Paths.Root.
type Log struct {
	Dir   string `koanf:"dir"   validate:"required"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LAYOUTD_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Templates Templates `koanf:"templates"`
	Widgets   Widgets   `koanf:"widgets"`
	Database  Database  `koanf:"database"`
	Vault     Vault     `koanf:"vault"`
	Log       Log       `koanf:"log"`
	Paths     Paths     `koanf:"-"`
}

// Defaults returns the values used for keys absent from every layer.
func Defaults() Config {
	return Config{
		HTTP:      HTTP{ListenAddr: ":8080"},
		Templates: Templates{Builtins: true, ApplyDefaults: true},
		Widgets:   Widgets{Builtins: true},
		Database:  Database{Driver: "mysql"},
		Log:       Log{Dir: "logs", Level: "info"},
	}
}
