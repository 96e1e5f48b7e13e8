package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// WebsocketConnection adapts a gorilla websocket to the registry's
// Connection interface. Writes are serialized; gorilla connections allow at
// most one concurrent writer.
type WebsocketConnection struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebsocketConnection(conn *websocket.Conn) *WebsocketConnection {
	return &WebsocketConnection{conn: conn}
}

func (w *WebsocketConnection) Send(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return w.conn.WriteJSON(event)
}

func (w *WebsocketConnection) Close() error {
	return w.conn.Close()
}
