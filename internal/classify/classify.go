// Package classify maps raw upstream error text to an advisory error code.
// Upstream providers return opaque error strings, so this is a best-effort
// substring heuristic, not a typed protocol. Treat the output as metadata for
// display and alerting, never as a contract.
package classify

import "strings"

// Code is an advisory classification of an upstream failure.
type Code string

const (
	CreditExhausted Code = "CREDIT_EXHAUSTED"
	RateLimited     Code = "RATE_LIMITED"
	QuotaExceeded   Code = "QUOTA_EXCEEDED"
	Timeout         Code = "TIMEOUT"
	AuthError       Code = "AUTH_ERROR"
	Unknown         Code = "UNKNOWN"
)

// Classify inspects raw error text for known substrings. Rate-limit phrasing
// is checked before the generic quota phrasing because providers commonly say
// "rate limit exceeded", which would otherwise match the quota rule.
func Classify(raw string) Code {
	m := strings.ToLower(raw)

	switch {
	case strings.Contains(m, "insufficient credits"),
		strings.Contains(m, "credit balance"),
		strings.Contains(m, "no credits"):
		return CreditExhausted

	case strings.Contains(m, "rate limit"),
		strings.Contains(m, "rate-limit"),
		strings.Contains(m, "429"):
		return RateLimited

	case strings.Contains(m, "quota"),
		strings.Contains(m, "limit exceeded"):
		return QuotaExceeded

	case strings.Contains(m, "timeout"),
		strings.Contains(m, "timed out"),
		strings.Contains(m, "deadline exceeded"):
		return Timeout

	case strings.Contains(m, "401"),
		strings.Contains(m, "unauthorized"),
		strings.Contains(m, "invalid api key"),
		strings.Contains(m, "authentication"):
		return AuthError

	default:
		return Unknown
	}
}
