package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Code
	}{
		{"Insufficient credits to complete this request", CreditExhausted},
		{"your credit balance is too low", CreditExhausted},
		{"no credits remaining on this key", CreditExhausted},
		{"rate limit exceeded, slow down", RateLimited},
		{"openrouter rate_limit (HTTP 429): too many requests", RateLimited},
		{"monthly quota reached", QuotaExceeded},
		{"usage limit exceeded for this billing period", QuotaExceeded},
		{"request timeout after 120s", Timeout},
		{"context deadline exceeded", Timeout},
		{"connection timed out", Timeout},
		{"HTTP 401 Unauthorized", AuthError},
		{"invalid api key provided", AuthError},
		{"something went sideways", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Classify(tt.raw); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestClassify_RateLimitBeatsQuota(t *testing.T) {
	// "rate limit exceeded" contains "limit exceeded" — the rate-limit rule
	// must win.
	if got := Classify("rate limit exceeded"); got != RateLimited {
		t.Errorf("expected RATE_LIMITED, got %s", got)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("RATE LIMIT Exceeded"); got != RateLimited {
		t.Errorf("expected RATE_LIMITED, got %s", got)
	}
}
