package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type ErrorCode string

const (
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	CodeRateLimit        ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavail   ErrorCode = "SERVICE_UNAVAILABLE"

	// Pipeline failures. These end the run before anything is served.
	CodeGeneration       ErrorCode = "GENERATION_FAILED"
	CodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
	CodeRender           ErrorCode = "RENDER_FAILED"
	CodeExport           ErrorCode = "EXPORT_FAILED"
	CodePortExhausted    ErrorCode = "PORT_EXHAUSTED"
)

// Codes missing from this table map to 500.
var statusByCode = map[ErrorCode]int{
	CodeValidation:       http.StatusBadRequest,
	CodeBadRequest:       http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeMethodNotAllowed: http.StatusMethodNotAllowed,
	CodeRateLimit:        http.StatusTooManyRequests,
	CodeServiceUnavail:   http.StatusServiceUnavailable,
	CodePortExhausted:    http.StatusServiceUnavailable,
}

// AppError is an error with a stable code. Message is safe to show to a
// client; Cause and Details stay server side unless rendered explicitly.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Details != "" {
		msg += " [" + e.Details + "]"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails sets Details and returns e so it can be chained onto a
// constructor.
func (e *AppError) WithDetails(format string, args ...any) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

func New(code ErrorCode, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Cause = err
	return e
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	for stderrors.As(err, &appErr) {
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

func Internal(message string) *AppError { return New(CodeInternal, message) }

func InternalWrap(err error, message string) *AppError { return Wrap(err, CodeInternal, message) }

func Validation(message string) *AppError { return New(CodeValidation, message) }

func NotFound(message string) *AppError { return New(CodeNotFound, message) }

func RateLimit(message string) *AppError { return New(CodeRateLimit, message) }

func GenerationWrap(err error, message string) *AppError { return Wrap(err, CodeGeneration, message) }

func InsufficientData(message string) *AppError { return New(CodeInsufficientData, message) }

func RenderWrap(err error, message string) *AppError { return Wrap(err, CodeRender, message) }

func ExportWrap(err error, message string) *AppError { return Wrap(err, CodeExport, message) }

func PortExhausted(message string) *AppError { return New(CodePortExhausted, message) }

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

// WriteError renders err as a JSON error body. Errors without a code are
// reported as internal errors and their text is not sent.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, requestID string) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		copied := *appErr
		appErr = &copied
	} else {
		appErr = InternalWrap(err, "An unexpected error occurred")
	}
	appErr.RequestID = requestID

	level := slog.LevelWarn
	if appErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "request failed",
		"error_code", appErr.Code,
		"status_code", appErr.StatusCode,
		"request_id", requestID,
		"error", err,
	)

	if appErr.StatusCode >= http.StatusInternalServerError {
		appErr.Details = ""
	}
	body := ErrorResponse{Error: appErr}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		logger.Error("failed to encode error response", "error", encodeErr, "request_id", requestID)
	}
}
