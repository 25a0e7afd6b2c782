package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithOptions(Options{Level: tt.level, File: cfg}); err != nil {
				t.Fatalf("init: %v", err)
			}

			Log.Debug("debug message")
			Log.Info("info message")
			Log.Warn("warn message")
			Log.Error("error message")
			Sync()

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read log: %v", err)
			}
			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output", exc)
				}
			}
		})
	}
}

func TestInitRejectsBadOptions(t *testing.T) {
	before := Log

	if err := InitWithOptions(Options{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}

	// A regular file cannot be a parent directory.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultFileConfig(filepath.Join(blocker, "logs", "showcase.log"))
	if err := InitWithOptions(Options{Level: "info", File: cfg}); err == nil {
		t.Error("expected error for uncreatable log path")
	}

	if Log != before {
		t.Error("failed init replaced the global logger")
	}
}

func TestInitCreatesLogDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "showcase.log")
	if err := Init("info", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { Log = zap.NewNop() }()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestConsoleDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Console: &buf})
	l.Info("hello")
	_ = l.Sync()
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("console output = %q", buf.String())
	}

	// No sinks at all yields a no-op logger.
	New(Options{Level: "debug"}).Info("dropped")
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("bogus") != zapcore.InfoLevel {
		t.Error("unknown level should default to info")
	}
	if ParseLevel("warn") != zapcore.WarnLevel {
		t.Error("warn not parsed")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/showcase.log")
	if cfg.Path != "/tmp/showcase.log" || cfg.MaxBackups != 3 || !cfg.Compress {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
