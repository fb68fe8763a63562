// Package ws serves the authenticated sync WebSocket.
//
// A connection moves through four states. While connecting, the session
// cookie is checked and an unauthenticated request gets 401 without an
// upgrade. Once authenticated, the connection is registered under its
// session and the owner's current list is written as the first frame.
// While streaming, every "tasks" frame replaces the owner's list and is
// broadcast to all of the owner's connections. On close, the registry entry
// is released.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/auth"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
	"github.com/dmitrijs2005/tasksync/internal/server/protocol"
	"github.com/dmitrijs2005/tasksync/internal/server/registry"
)

// Maximum size of an inbound frame.
const maxMessageSize = 1 << 20

type SessionResolver interface {
	Resolve(sid models.SessionID) (models.UserID, error)
}

type TaskReader interface {
	Get(userID models.UserID) models.Tasks
}

type Registry interface {
	Register(sid models.SessionID, s registry.Sender)
	Release(sid models.SessionID, s registry.Sender)
}

type Broadcaster interface {
	ApplyAndBroadcast(ctx context.Context, userID models.UserID, tasks models.Tasks) (int, error)
}

// Options tune the transport. A zero KeepaliveInterval disables server pings
// and read deadlines.
type Options struct {
	SecretKey         []byte
	WriteTimeout      time.Duration
	KeepaliveInterval time.Duration
	PongWait          time.Duration
}

type Handler struct {
	sessions    SessionResolver
	tasks       TaskReader
	registry    Registry
	broadcaster Broadcaster
	opts        Options
	upgrader    websocket.Upgrader
	logger      logging.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHandler(sessions SessionResolver, tasks TaskReader, reg Registry, b Broadcaster, opts Options, logger logging.Logger) *Handler {
	return &Handler{
		sessions:    sessions,
		tasks:       tasks,
		registry:    reg,
		broadcaster: b,
		opts:        opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// authenticate resolves the cookie of r to an active session.
func (h *Handler) authenticate(r *http.Request) (models.SessionID, models.UserID, error) {
	sid, err := auth.SessionIDFromRequest(r, h.opts.SecretKey)
	if err != nil {
		return 0, 0, err
	}
	uid, err := h.sessions.Resolve(sid)
	if err != nil {
		return 0, 0, err
	}
	return sid, uid, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid, uid, err := h.authenticate(r)
	if err != nil {
		h.logger.Debug(ctx, "websocket rejected", "error", err)
		http.Error(w, common.ErrorUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn(ctx, "websocket upgrade failed", "error", err)
		return
	}

	h.serve(context.WithoutCancel(ctx), conn, sid, uid)
}

func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, sid models.SessionID, uid models.UserID) {
	log := h.logger.With(
		"conn_id", uuid.NewString(),
		"session_id", sid.String(),
		"user_id", uid.String(),
	)

	out := newOutbound(conn, h.opts.WriteTimeout)

	h.track(conn)
	defer func() {
		h.registry.Release(sid, out)
		out.close()
		_ = conn.Close()
		h.untrack(conn)
		log.Info(ctx, "connection closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	if h.opts.KeepaliveInterval > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		})
	}

	// Registration and the snapshot share one hold of the send lock, so a
	// broadcast racing with this connection is written after the snapshot.
	if err := h.greet(out, sid, uid); err != nil {
		log.Warn(ctx, "initial snapshot not sent", "error", err)
		return
	}
	log.Info(ctx, "connection established")

	if h.opts.KeepaliveInterval > 0 {
		stop := make(chan struct{})
		defer close(stop)
		go h.keepalive(ctx, conn, stop, log)
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn(ctx, "websocket read error", "error", err)
			}
			return
		}

		if mt != websocket.TextMessage {
			log.Warn(ctx, "frame discarded", "error", common.ErrMalformedMessage, "message_type", mt)
			continue
		}

		tasks, err := protocol.DecodeUpdate(data)
		if err != nil {
			log.Warn(ctx, "frame discarded", "error", err)
			continue
		}

		if _, err := h.broadcaster.ApplyAndBroadcast(ctx, uid, tasks); err != nil {
			log.Error(ctx, "broadcast failed", "error", err)
		}
	}
}

func (h *Handler) greet(out *outbound, sid models.SessionID, uid models.UserID) error {
	out.mu.Lock()
	defer out.mu.Unlock()

	h.registry.Register(sid, out)

	frame, err := protocol.EncodeNewTasks(h.tasks.Get(uid))
	if err != nil {
		return err
	}
	return out.sendLocked(frame)
}

// keepalive pings the peer until stop is closed or a ping fails. Control
// frames may be written concurrently with data frames.
func (h *Handler) keepalive(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}, log logging.Logger) {
	ticker := time.NewTicker(h.opts.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.opts.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debug(ctx, "ping failed", "error", err)
				}
				return
			}
		}
	}
}

func (h *Handler) track(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Handler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// CloseAll sends a going-away close frame to every open connection. Their
// read loops then exit and release their registrations.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	deadline := time.Now().Add(time.Second)
	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = c.Close()
	}
}

// Active returns the number of open connections.
func (h *Handler) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
