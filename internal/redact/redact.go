// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Upstream ILS failures can echo request URLs, session
// tokens, pins and patron e-mail addresses; this package scrubs them so the
// underlying cause can still be logged server-side.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedURLPlaceholder        = "[REDACTED_URL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order: URLs first so that hosts and query tokens
// inside them are removed as a unit, e-mail before host names.
var rules = []rule{
	{regexp.MustCompile(`(?i)\bhttps?://[^\s"'<>]+`), RedactedURLPlaceholder},
	{
		regexp.MustCompile(`(?i)\b(x-sirs-sessionToken|sessionToken|resetPinToken)\b["']?\s*[:=]\s*["']?[^"'&,\s}]+`),
		RedactedTokenPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(password|currentPin|newPin|pin)\b["']?\s*[:=]\s*["']?[^"'&,\s}]+`),
		RedactedCredentialPlaceholder,
	},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}(?::\d{1,5})?\b`), RedactedHostPlaceholder},
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		RedactedHostPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
