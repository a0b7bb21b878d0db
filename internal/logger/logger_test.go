package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != GetLogger() {
		t.Fatal("expected the global logger without a request logger")
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if FromContext(NewContext(context.Background(), l)) != l {
		t.Fatal("expected the request logger")
	}
}

func TestInitWithConfigWritesToFile(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() {
		globalLogger = prev
		slog.SetDefault(prev)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	if err := InitWithConfig(Config{Level: LevelWarn, OutputPath: path, Format: "json"}); err != nil {
		t.Fatalf("InitWithConfig: %v", err)
	}
	Info("hidden")
	Warn("shown", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"key":"value"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestLogLevelString(t *testing.T) {
	if LevelDebug.String() != "debug" || LevelError.String() != "error" || LogLevel(42).String() != "info" {
		t.Fatal("unexpected level names")
	}
}
