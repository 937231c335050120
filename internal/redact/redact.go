// Package redact strips credentials and session tokens out of strings
// before they reach logs or error responses.
package redact

import "regexp"

// Placeholders substituted for matched sensitive content.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

var (
	// Connection strings with inline credentials (postgres://user:pw@host).
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// password=..., passwd: "...", pwd='...'
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?|['"]?[=:])[^'"&\s]{3,}`)

	// secret/key/token assignments in config or query strings.
	secretRegex = regexp.MustCompile(`(?i)(jwt[_-]?secret|api[_-]?key|secret|token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Three-part base64url session tokens.
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts sensitive material from the input.
// Token and credential patterns run before the email pattern so connection
// strings are collapsed as a whole rather than piecemeal.
func String(input string) string {
	if input == "" {
		return input
	}

	result := connStringRegex.ReplaceAllString(input, RedactedCredentialPlaceholder)
	result = passwordRegex.ReplaceAllString(result, RedactedCredentialPlaceholder)
	result = secretRegex.ReplaceAllString(result, RedactedTokenPlaceholder)
	result = jwtRegex.ReplaceAllString(result, RedactedTokenPlaceholder)
	result = emailRegex.ReplaceAllString(result, RedactedEmailPlaceholder)
	return result
}

// Error redacts sensitive material from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
