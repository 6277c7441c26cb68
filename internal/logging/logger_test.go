// internal/logging/logger_test.go
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/config"
)

func TestNew_LevelFallback(t *testing.T) {
	log, closeLog, err := New(config.LogConfig{Level: "chatty"})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	defer closeLog()

	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level: got=%v want=info", log.GetLevel())
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.log")

	log, closeLog, err := New(config.LogConfig{Level: "debug", Format: "json", Output: "file", FilePath: path})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	log.WithField("seq", 1).Info("row written")
	_ = closeLog()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"seq":1`) || !strings.Contains(string(b), `"msg":"row written"`) {
		t.Fatalf("unexpected log line: %s", b)
	}
}

func TestNew_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "logger.log")
	if _, _, err := New(config.LogConfig{Output: "file", FilePath: path}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
