package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
)

// peer is one connected client: its session ID, its connection and the
// outbound queue drained by a single write pump.
type peer struct {
	id   string
	conn *websocket.Conn

	// mu guards send against enqueue racing close: a broadcaster may hold
	// the peer pointer after the disconnect path dropped it from the map.
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newPeer(id string, conn *websocket.Conn) *peer {
	return &peer{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// enqueue - queues a message without blocking. A peer whose queue is full
// simply misses the message; its mirror stays stale until the next
// broadcast. Messages for a closed peer are dropped.
func (that *peer) enqueue(message []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.send <- message:
	default:
	}
}

func (that *peer) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

// writePump - drains the send queue onto the connection. It owns all writes
// for the peer's lifetime and closes the connection when the queue closes.
func (that *peer) writePump() {
	defer that.conn.Close()

	for message := range that.send {
		_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
