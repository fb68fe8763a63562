// Package api is the HTTP front of the server: account endpoints, the sync
// WebSocket and the static web client.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type Credentials interface {
	Register(ctx context.Context, username, password string) (models.UserID, error)
	Verify(ctx context.Context, username, password string) (models.UserID, error)
}

type Sessions interface {
	Login(userID models.UserID) (models.SessionID, error)
	Logout(sid models.SessionID)
}

// SyncHandler serves the WebSocket endpoint and can drop its connections.
type SyncHandler interface {
	http.Handler
	CloseAll()
}

type HTTPServer struct {
	address     string
	credentials Credentials
	sessions    Sessions
	sync        SyncHandler
	assetsDir   string
	secretKey   []byte
	logger      logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, creds Credentials, sess Sessions, sync SyncHandler, assetsDir string, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:     a,
		logger:      l.With("module", "http_server"),
		credentials: creds,
		sessions:    sess,
		sync:        sync,
		assetsDir:   assetsDir,
		secretKey:   []byte(secretKey),
	}
}

// Handler returns the routed handler wrapped in the access log.
func (s *HTTPServer) Handler() http.Handler {
	router := httprouter.New()

	router.POST("/api/register", s.handleRegister)
	router.POST("/api/login", s.handleLogin)
	router.POST("/api/logout", s.handleLogout)
	router.Handler(http.MethodGet, "/ws", s.sync)

	router.NotFound = staticHandler(s.assetsDir)

	return s.accessLog(router)
}

// Run serves until ctx is cancelled, then shuts the listener down and closes
// the open WebSockets.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		s.sync.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
