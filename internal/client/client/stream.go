package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
	"github.com/dmitrijs2005/tasksync/internal/server/protocol"
)

const writeWait = 10 * time.Second

type wsStream struct {
	conn *websocket.Conn

	// gorilla allows one concurrent writer
	mu sync.Mutex
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

// Next returns the next new_tasks frame. Frames that do not decode are
// skipped.
func (s *wsStream) Next() (models.Tasks, error) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			return models.Tasks{}, err
		}
		if mt != websocket.TextMessage {
			continue
		}
		tasks, err := protocol.DecodeNewTasks(data)
		if err != nil {
			continue
		}
		return tasks, nil
	}
}

func (s *wsStream) Send(tasks models.Tasks) error {
	frame, err := protocol.EncodeUpdate(tasks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

// Close says goodbye and drops the connection.
func (s *wsStream) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.conn.Close()
}
