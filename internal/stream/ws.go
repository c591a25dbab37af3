package stream

import (
	"fmt"

	"github.com/gorilla/websocket"
)

// wsFrame mirrors the SSE framing as one JSON object per message.
type wsFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// WSSink streams events over a WebSocket connection. The payloads are the
// same JSON documents the SSE writer emits; only the framing differs.
type WSSink struct {
	conn *websocket.Conn
}

// NewWSSink wraps an upgraded connection.
func NewWSSink(conn *websocket.Conn) *WSSink {
	return &WSSink{conn: conn}
}

// Send writes one event as a JSON text message.
func (s *WSSink) Send(ev Event) error {
	if err := s.conn.WriteJSON(wsFrame{Event: string(ev.Name), Data: ev.Data}); err != nil {
		return fmt.Errorf("write ws event: %w", err)
	}
	return nil
}
