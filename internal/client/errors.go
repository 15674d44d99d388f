package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// fallbackMessage is returned when no usable message can be derived from an
// error payload.
const fallbackMessage = "an error occurred"

// ErrNotSignedIn is returned when a token refresh is requested but no
// principal is signed in with the identity provider.
var ErrNotSignedIn = errors.New("not signed in")

// APIError represents a backend API error response. Message is a
// human-readable string derived from the structured error payload; Body
// preserves the raw response for callers that need it.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       []byte
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func newAPIError(status int, body []byte, endpoint string) *APIError {
	return &APIError{
		StatusCode: status,
		Endpoint:   endpoint,
		Body:       body,
		Message:    FormatErrorMessage(body),
	}
}

// FormatErrorMessage derives a display message from a structured error
// payload. Precedence, first match wins: a list of field validation errors,
// a list of plain error strings, a string detail, an object detail with a
// message, any other object detail serialized, a top-level message, then a
// fixed fallback.
func FormatErrorMessage(body []byte) string {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		return fallbackMessage
	}

	if items, ok := data["detail"].([]any); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, formatDetailItem(item))
		}
		return strings.Join(parts, ", ")
	}

	// A plain errors list outranks every non-list detail shape.
	if errs, ok := data["errors"].([]any); ok {
		parts := make([]string, 0, len(errs))
		for _, e := range errs {
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, ", ")
	}

	switch d := data["detail"].(type) {
	case string:
		return d
	case map[string]any:
		if msg, ok := d["message"].(string); ok {
			return msg
		}
		b, err := json.Marshal(d)
		if err != nil {
			return fallbackMessage
		}
		return string(b)
	}

	if msg, ok := data["message"].(string); ok {
		return msg
	}

	return fallbackMessage
}

// formatDetailItem renders one entry of a validation error list as
// "<field path>: <message>".
func formatDetailItem(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		msg, _ := v["msg"].(string)
		if msg == "" {
			msg, _ = v["message"].(string)
		}
		if msg == "" {
			msg = "Validation error"
		}
		if loc := joinLoc(v["loc"]); loc != "" {
			return loc + ": " + msg
		}
		return msg
	default:
		return fmt.Sprint(item)
	}
}

// joinLoc joins a field location path such as ["body","email"] with dots.
func joinLoc(loc any) string {
	items, ok := loc.([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			parts[i] = v
		case float64:
			parts[i] = fmt.Sprintf("%v", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ".")
}
