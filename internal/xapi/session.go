package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Devnone21/xtb-slim/internal/domain"
)

// DefaultEndpoint is the production websocket host. The account mode is
// appended as the URL path, so "demo" and "real" share one endpoint value.
const DefaultEndpoint = "wss://ws.xtb.com"

const (
	defaultDialTimeout = 10 * time.Second
	defaultReadTimeout = 120 * time.Second
)

// Status is the session's view of its authentication state. It changes only
// through explicit login and logout, never as a side effect of I/O failures.
type Status int

const (
	StatusNotLogged Status = iota
	StatusLogged
)

func (s Status) String() string {
	if s == StatusLogged {
		return "logged"
	}
	return "not-logged"
}

// Credentials identify one account on one endpoint mode ("demo" or "real").
type Credentials struct {
	UserID   string
	Password string
	Mode     string
}

// SessionConfig tunes the transport. Zero values take defaults.
type SessionConfig struct {
	Endpoint    string // base endpoint without the mode path
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Session owns one persistent websocket connection and performs strictly
// synchronous request/response exchanges over it. All methods are safe for
// concurrent use; exchanges serialize on the internal mutex.
type Session struct {
	cfg SessionConfig

	mu     sync.Mutex
	conn   *websocket.Conn
	creds  Credentials
	status Status
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	return &Session{cfg: cfg}
}

// Status reports the current authentication state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Login establishes a fresh connection to the mode-specific endpoint and
// authenticates. Any previous connection is superseded: closed and discarded,
// its pending traffic never drained. Credentials are retained for Relogin
// only after the server accepts them.
func (s *Session) Login(ctx context.Context, creds Credentials) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginLocked(ctx, creds)
}

// Relogin repeats the last successful login: fresh connection, same
// credentials. It is the recovery step after a transport failure.
func (s *Session) Relogin(ctx context.Context) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.UserID == "" {
		return Response{}, fmt.Errorf("relogin: no credentials from a prior login")
	}
	return s.loginLocked(ctx, s.creds)
}

func (s *Session) loginLocked(ctx context.Context, creds Credentials) (Response, error) {
	s.dropConnLocked()

	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.DialTimeout}
	url := s.cfg.Endpoint + "/" + creds.Mode
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return Response{}, &domain.TransportError{Err: fmt.Errorf("dial %s: %w", url, err)}
	}
	s.conn = conn

	resp, err := s.exchangeLocked(Command{
		Name: cmdLogin,
		Args: map[string]any{"userId": creds.UserID, "password": creds.Password},
	})
	if err != nil {
		s.dropConnLocked()
		return Response{}, err
	}
	if resp.Status {
		s.creds = creds
		s.status = StatusLogged
	}
	return resp, nil
}

// Logout sends one best-effort logout over the current connection and closes
// it. The session reports not-logged afterwards regardless of the outcome, so
// it is callable even after a failed command.
func (s *Session) Logout(ctx context.Context) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.exchangeLocked(Command{Name: cmdLogout})
	s.status = StatusNotLogged
	s.dropConnLocked()
	return resp, err
}

// Exchange writes one command and blocks for exactly one response frame.
// Every I/O or decode failure surfaces as a TransportError; the protocol
// offers no mid-exchange cancellation, so a stuck receive is bounded by the
// read deadline instead.
func (s *Session) Exchange(ctx context.Context, cmd Command) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	return s.exchangeLocked(cmd)
}

func (s *Session) exchangeLocked(cmd Command) (Response, error) {
	if s.conn == nil {
		return Response{}, &domain.TransportError{Err: domain.ErrNotConnected}
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("encode %s: %w", cmd.Name, err)
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.DialTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return Response{}, &domain.TransportError{Err: fmt.Errorf("write %s: %w", cmd.Name, err)}
	}

	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return Response{}, &domain.TransportError{Err: fmt.Errorf("read %s: %w", cmd.Name, err)}
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, &domain.TransportError{Err: fmt.Errorf("decode %s response: %w", cmd.Name, err)}
	}
	return resp, nil
}

func (s *Session) dropConnLocked() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
