package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConf(t *testing.T, root, body string) {
	t.Helper()
	dir := filepath.Join(root, "conf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, confFile), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadFrom_YAMLAndEnv(t *testing.T) {
	root := t.TempDir()
	writeConf(t, root, `
http:
  listen_addr: "127.0.0.1:9000"
templates:
  dirs: [templates, /abs/templates]
  builtins: false
widgets:
  kinds:
    gantt: GanttWidget
database:
  driver: sqlite3
  dsn: "file:layouts.db"
log:
  dir: var/log
  level: debug
`)
	t.Setenv("LAYOUTD_HTTP__LISTEN_ADDR", "127.0.0.1:9100")

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.HTTP.ListenAddr != "127.0.0.1:9100" {
		t.Errorf("env override lost: %q", cfg.HTTP.ListenAddr)
	}
	if cfg.Templates.Builtins {
		t.Errorf("templates.builtins should be false")
	}
	if !cfg.Templates.ApplyDefaults {
		t.Errorf("apply_defaults default lost")
	}
	if want := filepath.Join(root, "templates"); cfg.Templates.Dirs[0] != want {
		t.Errorf("dir[0] = %q, want %q", cfg.Templates.Dirs[0], want)
	}
	if cfg.Templates.Dirs[1] != "/abs/templates" {
		t.Errorf("absolute dir rewritten: %q", cfg.Templates.Dirs[1])
	}
	if cfg.Widgets.Kinds["gantt"] != "GanttWidget" {
		t.Errorf("widget kinds = %v", cfg.Widgets.Kinds)
	}
	if !cfg.Database.Enabled() || cfg.Database.Driver != "sqlite3" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Log.Dir != filepath.Join(root, "var/log") {
		t.Errorf("log dir = %q", cfg.Log.Dir)
	}
}

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	root := t.TempDir()
	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":8080" || !cfg.Templates.Builtins || cfg.Database.Enabled() {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFrom_ValidationFailure(t *testing.T) {
	root := t.TempDir()
	writeConf(t, root, `
database:
  driver: postgres
  dsn: "x"
`)
	if _, err := LoadFrom(root); err == nil {
		t.Fatalf("expected validation error for unknown driver")
	}
}

func TestLoadFrom_PlaceholderNeedsPassword(t *testing.T) {
	root := t.TempDir()
	writeConf(t, root, `
database:
  dsn: "app:%s@tcp(db:3306)/layouts"
`)
	if _, err := LoadFrom(root); err == nil {
		t.Fatalf("expected error for DSN placeholder without password")
	}
}

func TestDatabaseConnString(t *testing.T) {
	d := Database{DSN: "app:%s@tcp(db:3306)/layouts", Password: "pw"}
	if got := d.ConnString(); got != "app:pw@tcp(db:3306)/layouts" {
		t.Fatalf("ConnString = %q", got)
	}
	d = Database{DSN: "file:x.db"}
	if got := d.ConnString(); got != "file:x.db" {
		t.Fatalf("ConnString = %q", got)
	}
}
