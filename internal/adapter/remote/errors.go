package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// APIError is a non-2xx response from the backend, normalised from the
// several error body shapes the server produces.
type APIError struct {
	Status  int
	Code    string
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("remote: %s %s: status %d", e.Method, e.Path, e.Status)
}

// Unwrap maps the HTTP status onto the domain sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	}
	return nil
}

// ServerMessage returns the human-readable message sent by the backend.
func (e *APIError) ServerMessage() string { return e.Message }

// Temporary reports whether repeating the same request may succeed.
func (e *APIError) Temporary() bool { return e.Status >= 500 }

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Code    string `json:"code"`
}

func parseAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Method: method, Path: path}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Code = eb.Code
		switch {
		case eb.Message != "":
			apiErr.Message = eb.Message
		case eb.Error != "":
			apiErr.Message = eb.Error
		default:
			apiErr.Message = eb.Detail
		}
		return apiErr
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		text = ""
	}
	apiErr.Message = text
	return apiErr
}

// isRetryable reports whether a failed idempotent request should be repeated.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return errors.Is(err, domain.ErrNetwork)
}
