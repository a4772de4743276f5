// Package redact removes sensitive information from strings before they are
// logged or returned in error responses. It covers the secrets this service
// handles: store and broker connection strings, SMTP and JWT credentials,
// session tokens, and the email addresses of users and task assignees.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order. Connection strings go first so that the
// user:password@ segment is removed before the email rule sees it.
var rules = []rule{
	{
		// postgres://, mongodb://, mongodb+srv://, amqp(s)://, smtp(s):// with userinfo
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mongodb(?:\+srv)?|amqps?|smtps?|redis)://[^@\s/]+@`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		RedactedJWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/]{8,}=*`),
		RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)(api[_-]?key|jwt[_-]?secret|token|secret|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
		),
		RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		RedactedStackPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		RedactedEmailPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\S]*?\b(FROM|INTO|SET)\b[^;]*`,
		),
		RedactedSQLPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
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

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Email masks the local part of an address, keeping the first character and
// the domain for correlation: "jane@example.com" becomes "j***@example.com".
// Inputs without an @ are fully redacted.
func Email(address string) string {
	at := -1
	for i := len(address) - 1; i >= 0; i-- {
		if address[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return RedactionPlaceholder
	}
	return address[:1] + "***" + address[at:]
}
