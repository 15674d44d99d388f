package identity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderError is an identity-provider failure with a known code and a
// display message from the fixed code→message table.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// errorMessages maps provider error codes to display messages. Codes not in
// the table pass through unchanged.
var errorMessages = map[string]string{
	"EMAIL_NOT_FOUND":                "No account exists for this email.",
	"USER_NOT_FOUND":                 "No account exists for this email.",
	"INVALID_PASSWORD":               "Incorrect password.",
	"INVALID_LOGIN_CREDENTIALS":      "Invalid email or password.",
	"USER_DISABLED":                  "This account has been disabled.",
	"EMAIL_EXISTS":                   "This email is already in use.",
	"OPERATION_NOT_ALLOWED":          "This sign-in method is not enabled.",
	"WEAK_PASSWORD":                  "The password is too weak.",
	"TOO_MANY_ATTEMPTS_TRY_LATER":    "Too many attempts. Please try again later.",
	"TOKEN_EXPIRED":                  "The session has expired. Please sign in again.",
	"INVALID_ID_TOKEN":               "The session token is invalid.",
	"INVALID_REFRESH_TOKEN":          "The refresh token is invalid.",
	"MISSING_REFRESH_TOKEN":          "The refresh token is missing.",
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": "Recent sign-in required. Please sign in again.",
	"NETWORK_REQUEST_FAILED":         "The network request failed.",
	"INVALID_EMAIL":                  "The email address is invalid.",
}

// mapProviderError converts a provider error code to a ProviderError. Codes
// without a mapping keep the raw code as their message, so callers still see
// the provider's text and can branch on Code.
func mapProviderError(code string) error {
	if msg, ok := errorMessages[code]; ok {
		return &ProviderError{Code: code, Message: msg}
	}
	return &ProviderError{Code: code, Message: code}
}

// decodeProviderError extracts the error code from a provider error payload
// of the shape {"error":{"message":"CODE"}}. Codes may carry explanatory
// suffixes ("CODE : detail"); only the leading token is the code.
func decodeProviderError(body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Message == "" {
		return fmt.Errorf("identity provider error: %s", strings.TrimSpace(string(body)))
	}

	code := payload.Error.Message
	if idx := strings.IndexAny(code, " :"); idx > 0 {
		code = code[:idx]
	}
	return mapProviderError(code)
}
