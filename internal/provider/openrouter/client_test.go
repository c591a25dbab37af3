package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// noSleep skips retry delays in tests.
func noSleep(context.Context, time.Duration) {}

func validChatResponse() string {
	return `{
		"id": "gen-abc123",
		"model": "test/model",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithSleepFunc(noSleep),
	)
	return c, srv
}

func TestChatCompletion_Success(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(validChatResponse()))
	})

	resp, err := c.ChatCompletion(context.Background(), ChatRequest{
		Model:    "test/model",
		Messages: []Message{UserMessage(Text("hi"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TextContent() != "hello" {
		t.Errorf("expected 'hello', got %q", resp.TextContent())
	}
	if resp.ID != "gen-abc123" {
		t.Errorf("expected generation ID, got %q", resp.ID)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
}

func TestChatCompletion_RetriesOn429ThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
			return
		}
		w.Write([]byte(validChatResponse()))
	})

	resp, err := c.ChatCompletion(context.Background(), ChatRequest{Model: "test/model"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TextContent() != "hello" {
		t.Errorf("expected success after retries, got %q", resp.TextContent())
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestChatCompletion_CreditErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "Insufficient credits"}}`))
	})

	_, err := c.ChatCompletion(context.Background(), ChatRequest{Model: "test/model"})
	if err == nil {
		t.Fatal("expected error")
	}
	classified, ok := err.(*ClassifiedError)
	if !ok {
		t.Fatalf("expected *ClassifiedError, got %T", err)
	}
	if classified.Type != ErrCredits {
		t.Errorf("expected ErrCredits, got %s", classified.Type)
	}
	if calls.Load() != 1 {
		t.Errorf("credit errors must not retry, got %d attempts", calls.Load())
	}
}

func TestChatCompletion_AuthErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ChatCompletion(context.Background(), ChatRequest{Model: "test/model"})
	classified, ok := err.(*ClassifiedError)
	if !ok {
		t.Fatalf("expected *ClassifiedError, got %T", err)
	}
	if classified.Type != ErrAuth {
		t.Errorf("expected ErrAuth, got %s", classified.Type)
	}
	if calls.Load() != 1 {
		t.Errorf("auth errors must not retry, got %d attempts", calls.Load())
	}
}

func TestChatCompletion_EmptyChoicesIsMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "gen-1", "choices": []}`))
	})

	_, err := c.ChatCompletion(context.Background(), ChatRequest{Model: "test/model"})
	classified, ok := err.(*ClassifiedError)
	if !ok {
		t.Fatalf("expected *ClassifiedError, got %T", err)
	}
	if classified.Type != ErrMalformedResponse {
		t.Errorf("expected ErrMalformedResponse, got %s", classified.Type)
	}
}

func TestChatCompletion_CircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	// Each call exhausts its retries and counts one breaker failure; after
	// three the breaker opens and stops hitting the wire.
	for i := 0; i < 3; i++ {
		c.ChatCompletion(context.Background(), ChatRequest{Model: "test/model"}) //nolint:errcheck
	}
	before := calls.Load()

	_, err := c.ChatCompletion(context.Background(), ChatRequest{Model: "test/model"})
	if err == nil {
		t.Fatal("expected circuit open error")
	}
	classified, ok := err.(*ClassifiedError)
	if !ok {
		t.Fatalf("expected *ClassifiedError, got %T", err)
	}
	if classified.Type != ErrProviderOverloaded {
		t.Errorf("expected ErrProviderOverloaded for open breaker, got %s", classified.Type)
	}
	if calls.Load() != before {
		t.Error("open breaker must not send requests upstream")
	}
}

func TestChatCompletion_BreakersAreIsolatedPerModel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		if req.Model == "bad/model" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(validChatResponse()))
	})

	for i := 0; i < 4; i++ {
		c.ChatCompletion(context.Background(), ChatRequest{Model: "bad/model"}) //nolint:errcheck
	}

	// The sibling model's breaker is untouched.
	if _, err := c.ChatCompletion(context.Background(), ChatRequest{Model: "good/model"}); err != nil {
		t.Fatalf("healthy model must not share the tripped breaker: %v", err)
	}
}

func TestGenerationCost(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "gen-abc123" {
			t.Errorf("expected id gen-abc123, got %q", got)
		}
		w.Write([]byte(`{"data": {"id": "gen-abc123", "total_cost": 0.0042}}`))
	})

	usd, err := c.GenerationCost(context.Background(), "gen-abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usd != 0.0042 {
		t.Errorf("expected 0.0042, got %v", usd)
	}
}

func TestGenerationCost_HTTPErrorSurfaces(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := c.GenerationCost(context.Background(), "gone"); err == nil {
		t.Fatal("expected error for missing generation record")
	}
}

func TestClassifyHTTPError_BodyTextCredits(t *testing.T) {
	// Some providers report exhausted credits with a 400 and body text.
	resp := httptest.NewRecorder()
	resp.WriteHeader(http.StatusBadRequest)
	resp.Body.WriteString(`{"error": {"message": "Your credit balance is too low"}}`)

	got := classifyHTTPError(resp.Result())
	if got.Type != ErrCredits {
		t.Errorf("expected ErrCredits from body text, got %s", got.Type)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("30"); d != 30*time.Second {
		t.Errorf("expected 30s, got %s", d)
	}
	if d := parseRetryAfter(""); d != 0 {
		t.Errorf("expected 0 for empty header, got %s", d)
	}
	if d := parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"); d != 0 {
		t.Errorf("expected 0 for HTTP-date form, got %s", d)
	}
}
