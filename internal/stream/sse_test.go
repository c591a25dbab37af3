package stream

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncode_WireFraming(t *testing.T) {
	ev := ModelComplete("openai/gpt-5", true, "")

	frame, err := Encode(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "event: model_complete\ndata: {\"model\":\"openai/gpt-5\",\"success\":true}\n\n"
	if string(frame) != want {
		t.Errorf("frame mismatch:\nwant %q\ngot  %q", want, frame)
	}
}

func TestEncode_FailureCarriesErrorCode(t *testing.T) {
	frame, err := Encode(ModelComplete("x", false, "RATE_LIMITED"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "event: model_complete\ndata: {\"model\":\"x\",\"success\":false,\"errorCode\":\"RATE_LIMITED\"}\n\n"
	if string(frame) != want {
		t.Errorf("frame mismatch:\nwant %q\ngot  %q", want, frame)
	}
}

func TestEncode_SynthesisStartHasEmptyObject(t *testing.T) {
	frame, err := Encode(SynthesisStart())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "event: synthesis_start\ndata: {}\n\n"
	if string(frame) != want {
		t.Errorf("frame mismatch:\nwant %q\ngot  %q", want, frame)
	}
}

func TestEncode_ErrorEvent(t *testing.T) {
	frame, err := Encode(Error("synthesis failed: boom", "UNKNOWN"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "event: error\ndata: {\"message\":\"synthesis failed: boom\",\"code\":\"UNKNOWN\"}\n\n"
	if string(frame) != want {
		t.Errorf("frame mismatch:\nwant %q\ngot  %q", want, frame)
	}
}

func TestSSEWriter_HeadersAndFlush(t *testing.T) {
	rec := httptest.NewRecorder()

	w, err := NewSSEWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected no-cache, got %q", cc)
	}

	if err := w.Send(SynthesisStart()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !rec.Flushed {
		t.Error("expected event to be flushed immediately")
	}
	if rec.Body.String() != "event: synthesis_start\ndata: {}\n\n" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

// nonFlusher is a ResponseWriter without http.Flusher.
type nonFlusher struct{}

func (nonFlusher) Header() http.Header       { return http.Header{} }
func (nonFlusher) Write(p []byte) (int, error) { return len(p), nil }
func (nonFlusher) WriteHeader(int)           {}

func TestNewSSEWriter_RequiresFlusher(t *testing.T) {
	if _, err := NewSSEWriter(nonFlusher{}); err == nil {
		t.Error("expected error for non-flushing writer")
	}
}
