package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")

	// ErrNetwork marks failures where the request never produced a server response.
	ErrNetwork = errors.New("network error")

	ErrNoActiveClient = errors.New("no active client")
	ErrNotCancellable = errors.New("upload can no longer be cancelled")
	ErrNoBatch        = errors.New("no prepared upload batch")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// serverMessager is implemented by transport errors that carry a
// human-readable message produced by the backend.
type serverMessager interface {
	ServerMessage() string
}

// UserMessage converts any error into text suitable for a notification.
// It never exposes wrapped error chains or Go type names.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			msgs = append(msgs, fe.Field+": "+fe.Message)
		}
		return strings.Join(msgs, "; ")
	}

	switch {
	case errors.Is(err, ErrNetwork):
		return "网络错误，请检查网络连接后重试"
	case errors.Is(err, ErrUnauthorized):
		return "登录已过期，请重新登录"
	case errors.Is(err, ErrForbidden):
		return "没有权限执行此操作"
	case errors.Is(err, ErrNoActiveClient):
		return "请先选择客户"
	case errors.Is(err, ErrNotCancellable):
		return "上传已开始，无法取消"
	}

	var sm serverMessager
	if errors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}

	if errors.Is(err, ErrNotFound) {
		return "请求的资源不存在"
	}
	return "操作失败，请稍后重试"
}
