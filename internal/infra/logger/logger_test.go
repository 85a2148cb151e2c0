package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bigben_scheduler/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func TestInitWritesAppendOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigben_log.txt")
	t.Cleanup(func() {
		_ = Close()
		Log.SetOutput(os.Stdout)
	})

	Init(&config.AppConfig{LogLevel: "debug", Environment: "development", LogFile: path})
	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Log.GetLevel())
	}

	Component("chime").Info("Chime fired at 08:50")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Chime fired at 08:50") || !strings.Contains(content, "component=chime") {
		t.Errorf("log file missing entry, got:\n%s", content)
	}
	if !strings.Contains(content, `time="`) {
		t.Errorf("log lines should be timestamp-prefixed, got:\n%s", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Errorf("log file should not contain color codes")
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { Log.SetOutput(os.Stdout) })

	Init(&config.AppConfig{LogLevel: "chatty", Environment: "production"})
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", Log.GetLevel())
	}
	if _, ok := Log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("production should use the JSON formatter, got %T", Log.Formatter)
	}
}
