package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errConnClosed = errors.New("connection closed")

// frameWriter is the part of *websocket.Conn used for data frames.
type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
}

// outbound serializes data frames to one connection. It is the handle that
// the registry hands to broadcasters.
type outbound struct {
	mu           sync.Mutex
	w            frameWriter
	writeTimeout time.Duration
	closed       bool
}

func newOutbound(w frameWriter, writeTimeout time.Duration) *outbound {
	return &outbound{w: w, writeTimeout: writeTimeout}
}

func (o *outbound) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sendLocked(msg)
}

func (o *outbound) sendLocked(msg []byte) error {
	if o.closed {
		return errConnClosed
	}
	if o.writeTimeout > 0 {
		if err := o.w.SetWriteDeadline(time.Now().Add(o.writeTimeout)); err != nil {
			return err
		}
	}
	return o.w.WriteMessage(websocket.TextMessage, msg)
}

// close makes every later Send fail without touching the transport.
func (o *outbound) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}
