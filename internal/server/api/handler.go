package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/auth"
)

// Maximum accepted size of a credentials body.
const maxBodySize = 64 << 10

type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// decodeCredentials replies 400 for unparsable JSON and 422 for a missing
// field and reports whether the handler should go on.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return "", "", false
	}
	if req.Username == nil || req.Password == nil {
		http.Error(w, "username and password are required", http.StatusUnprocessableEntity)
		return "", "", false
	}
	return *req.Username, *req.Password, true
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	username, password, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	s.logger.Info(ctx, "Registration request", "username", username)

	id, err := s.credentials.Register(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrConflict):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, common.ErrValidation):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			s.logger.Error(ctx, "registration failed", "error", err)
			http.Error(w, common.ErrorInternal.Error(), http.StatusInternalServerError)
		}
		return
	}

	s.logger.Info(ctx, "Registered", "username", username, "user_id", id.String())
	w.WriteHeader(http.StatusCreated)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	username, password, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	uid, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			http.Error(w, common.ErrorUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		s.logger.Error(ctx, "login failed", "error", err)
		http.Error(w, common.ErrorInternal.Error(), http.StatusInternalServerError)
		return
	}

	sid, err := s.sessions.Login(uid)
	if err != nil {
		s.logger.Error(ctx, "session not created", "error", err)
		http.Error(w, common.ErrorInternal.Error(), http.StatusInternalServerError)
		return
	}

	cookie, err := auth.NewSessionCookie(sid, s.secretKey)
	if err != nil {
		s.sessions.Logout(sid)
		s.logger.Error(ctx, "session cookie not signed", "error", err)
		http.Error(w, common.ErrorInternal.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, cookie)
	s.logger.Info(ctx, "Logged in", "user_id", uid.String())
	w.WriteHeader(http.StatusOK)
}

// handleLogout revokes the session named by the cookie, if any, and always
// clears the cookie.
func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if sid, err := auth.SessionIDFromRequest(r, s.secretKey); err == nil {
		s.sessions.Logout(sid)
	}
	http.SetCookie(w, auth.ExpiredSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}
