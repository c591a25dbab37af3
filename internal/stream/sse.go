package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Encode renders one event in text/event-stream framing:
//
//	event: <name>\ndata: <JSON>\n\n
//
// Existing consumers parse this framing byte-for-byte, so it must not change.
func Encode(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ev.Name, err)
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", ev.Name, data)), nil
}

// SSEWriter streams events to an HTTP response as Server-Sent Events.
// Each event is flushed immediately; there is no batching.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares a response for event streaming. Returns an error if
// the underlying writer can't flush (SSE requires it).
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Send writes one event and flushes it.
func (s *SSEWriter) Send(ev Event) error {
	frame, err := Encode(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}
