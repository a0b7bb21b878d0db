package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("age", "age must be between 10 and 100")
	if err.Field() != "age" {
		t.Fatalf("expected field age, got %q", err.Field())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatal("validation errors should match ErrInvalidInput")
	}
	if !strings.Contains(err.Source, "errors_test.go") {
		t.Fatalf("source should point at the caller, got %q", err.Source)
	}
}

func TestGenerationErrorWrapsCause(t *testing.T) {
	cause := errors.New("upstream 503")
	err := NewGenerationError(KindProviderError, cause, "Failed to generate plan")
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable through Unwrap")
	}
	if !errors.Is(err, ErrProviderFailed) || errors.Is(err, ErrInvalidJSON) {
		t.Fatal("Is should compare type and code")
	}

	wrapped := Wrap(err, ErrorTypeInternal, "INTERNAL", "outer")
	got, ok := As(wrapped)
	if !ok || got.Type != ErrorTypeInternal {
		t.Fatalf("As should return the outermost AppError, got %+v", got)
	}
	if !IsType(wrapped, ErrorTypeInternal) || IsType(cause, ErrorTypeInternal) {
		t.Fatal("unexpected IsType result")
	}
}

func TestRawTextContext(t *testing.T) {
	err := NewGenerationError(KindInvalidJSON, nil, "bad").WithContext("raw_text", "```json {")
	if err.RawText() != "```json {" {
		t.Fatalf("unexpected raw text %q", err.RawText())
	}
	if NewInternalError(nil).RawText() != "" {
		t.Fatal("raw text should default to empty")
	}
}

func TestHandlerLogLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

	cases := []struct {
		err   error
		level string
	}{
		{NewPersistenceError(CodeDeleteDenied, nil, "denied"), "WARN"},
		{NewValidationError("goals", "required"), "WARN"},
		{NewPersistenceError(CodeSaveFailed, errors.New("db"), "save"), "ERROR"},
		{NewGenerationError(KindInvalidShape, errors.New("shape"), "shape"), "ERROR"},
		{errors.New("plain"), "ERROR"},
	}
	for _, tc := range cases {
		buf.Reset()
		h.Handle(context.Background(), tc.err)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("decode log entry %q: %v", buf.String(), err)
		}
		if entry["level"] != tc.level {
			t.Fatalf("%v: expected level %s, got %v", tc.err, tc.level, entry["level"])
		}
	}

	buf.Reset()
	h.Handle(context.Background(), nil)
	if buf.Len() != 0 {
		t.Fatal("nil errors must not be logged")
	}
}

func TestLogAndReturn(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))
	err := NewTimeoutError("plan generation", context.DeadlineExceeded)

	if got := h.LogAndReturn(context.Background(), err); got != err {
		t.Fatal("LogAndReturn should return its argument")
	}
	if !strings.Contains(buf.String(), "operation=\"plan generation\"") {
		t.Fatalf("expected operation in log, got %s", buf.String())
	}
}
