package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_WritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(dir, "debug", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer zap.ReplaceGlobals(zap.NewNop())

	log.Infow("hello", "k", "v")
	_ = log.Sync()

	name := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	raw, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"hello"`) {
		t.Fatalf("log line missing: %s", raw)
	}
	if !strings.Contains(string(raw), `"level":"info"`) {
		t.Fatalf("lowercase level missing: %s", raw)
	}
}

func TestConsole(t *testing.T) {
	if Console(true) == nil || Console(false) == nil {
		t.Fatalf("Console returned nil")
	}
}
