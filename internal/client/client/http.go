package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/tasksync/internal/common"
)

// HTTPClient talks to one server. The session cookie set by Login lives in
// the client's jar and is presented by every later call, including Connect.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	dialer  *websocket.Dialer
}

func NewHTTPClient(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: timeout,
			Jar:              jar,
		},
	}, nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *HTTPClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var payload io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	resp, err := c.post(ctx, "/api/register", credentials{username, password})
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return common.ErrConflict
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return common.ErrValidation
	default:
		return fmt.Errorf("register: unexpected status %s", resp.Status)
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	resp, err := c.post(ctx, "/api/login", credentials{username, password})
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return common.ErrValidation
	default:
		return fmt.Errorf("login: unexpected status %s", resp.Status)
	}
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, "/api/logout", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout: unexpected status %s", resp.Status)
	}
	return nil
}

// Connect opens the sync WebSocket with the current session.
func (c *HTTPClient) Connect(ctx context.Context) (Stream, error) {
	u := *c.baseURL
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return newWSStream(conn), nil
}
