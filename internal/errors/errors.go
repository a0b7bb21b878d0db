package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeGeneration   ErrorType = "generation"
	ErrorTypePersistence  ErrorType = "persistence"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeTimeout      ErrorType = "timeout"
)

// Generation failure kinds, stored in AppError.Code.
const (
	KindProviderError = "provider_error"
	KindInvalidJSON   = "invalid_json"
	KindInvalidShape  = "invalid_shape"
)

// Persistence failure codes.
const (
	CodeSaveFailed   = "SAVE_FAILED"
	CodeDeleteDenied = "DELETE_DENIED"
	CodeDeleteFailed = "DELETE_FAILED"
	CodeNotFound     = "NOT_FOUND"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Field returns the offending field of a validation error, if any.
func (e *AppError) Field() string {
	if f, ok := e.Context["field"].(string); ok {
		return f
	}
	return ""
}

// RawText returns the unparsed model output attached to a generation failure.
func (e *AppError) RawText() string {
	if s, ok := e.Context["raw_text"].(string); ok {
		return s
	}
	return ""
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return newAt(2, errorType, code, message, nil)
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return newAt(2, errorType, code, message, err)
}

func newAt(skip int, errorType ErrorType, code, message string, internal error) *AppError {
	_, file, line, _ := runtime.Caller(skip)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: internal,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// As extracts an *AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if appErr, ok := As(err); ok {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypeUnauthorized:
		h.logger.WarnContext(ctx, "Unauthorized", err.LogFields()...)
	case ErrorTypePersistence:
		if err.Code == CodeDeleteDenied || err.Code == CodeNotFound {
			h.logger.WarnContext(ctx, "Persistence rejected", err.LogFields()...)
			return
		}
		h.logger.ErrorContext(ctx, "Persistence error", err.LogFields()...)
	case ErrorTypeGeneration, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors
var (
	ErrInvalidInput   = New(ErrorTypeValidation, "INVALID_FIELD", "Invalid data")
	ErrUnauthorized   = New(ErrorTypeUnauthorized, "UNAUTHORIZED", "Unauthorized")
	ErrProviderFailed = New(ErrorTypeGeneration, KindProviderError, "Model provider failed")
	ErrInvalidJSON    = New(ErrorTypeGeneration, KindInvalidJSON, "Invalid JSON response from AI")
	ErrInvalidShape   = New(ErrorTypeGeneration, KindInvalidShape, "AI response does not match the plan schema")
	ErrSaveFailed     = New(ErrorTypePersistence, CodeSaveFailed, "Failed to save")
	ErrDeleteDenied   = New(ErrorTypePersistence, CodeDeleteDenied, "Could not delete plan. You might not have permission.")
	ErrNotFound       = New(ErrorTypePersistence, CodeNotFound, "Not found")
	ErrInternalServer = New(ErrorTypeInternal, "INTERNAL", "Internal server error")
)

// NewValidationError reports the first violated profile field.
func NewValidationError(field, message string) *AppError {
	return newAt(2, ErrorTypeValidation, "INVALID_FIELD", message, nil).
		WithContext("field", field)
}

// NewGenerationError builds a generation failure of the given kind.
func NewGenerationError(kind string, err error, message string) *AppError {
	return newAt(2, ErrorTypeGeneration, kind, message, err)
}

func NewPersistenceError(code string, err error, message string) *AppError {
	return newAt(2, ErrorTypePersistence, code, message, err)
}

func NewTimeoutError(operation string, err error) *AppError {
	return newAt(2, ErrorTypeTimeout, "TIMEOUT", fmt.Sprintf("%s operation timed out", operation), err).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return newAt(2, ErrorTypeInternal, "INTERNAL", "Internal server error", err)
}
