// Package logging contains helpers for scrubbing secrets out of anything
// that reaches a log line or an error surfaced to an agent.
package logging

import (
	"regexp"
)

const (
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// client_secret=xxx / client_id=xxx in OAuth token request bodies and URLs.
	oauthParamPattern = regexp.MustCompile(`(?i)(client_secret|client_id|password)=[^;&\s]+`)

	// Bearer tokens and raw JWTs (three base64url segments).
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.?[A-Za-z0-9-_.]*`)

	// access_token values inside JSON or query fragments.
	accessTokenPattern = regexp.MustCompile(`(?i)("?access_token"?\s*[:=]\s*)"?[A-Za-z0-9-_.]+"?`)

	// user:pass@host credentials embedded in URLs.
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@[^/\s]+`)
)

// SanitizeError scrubs token material and credentials from an error before
// it is logged or attached to a tool result.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString scrubs token material and credentials from s.
func SanitizeString(s string) string {
	if s == "" {
		return ""
	}
	sanitized := oauthParamPattern.ReplaceAllString(s, "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = accessTokenPattern.ReplaceAllString(sanitized, "${1}"+RedactedText)
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// TruncateString truncates s to maxLen bytes and adds an ellipsis
// if anything was cut.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
