// Package ws maintains the WebSocket connection to the chat server: one
// reader goroutine delivering decoded events in arrival order, JSON writes
// guarded by a mutex, and automatic reconnection with capped linear backoff.
package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deepagents/deepchat/pkg/stream"
)

// ErrNotConnected is returned by Send while the connection is down. Outbound
// messages are never queued; the caller decides whether to retry.
var ErrNotConnected = errors.New("not connected")

const (
	defaultMaxReconnects  = 5
	defaultReconnectDelay = 2 * time.Second
)

// State is the connection lifecycle stage.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// FrameHandler receives each decoded event, in arrival order, from the
// client's reader goroutine. It must not block for long.
type FrameHandler func(ev stream.Event)

// StateHandler receives connection state transitions.
type StateHandler func(state State)

// Client is a reconnecting WebSocket client. All callbacks fire from
// client-owned goroutines.
type Client struct {
	url           string
	dialer        *websocket.Dialer
	onFrame       FrameHandler
	onState       StateHandler
	maxReconnects int
	delayStep     time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	state    State
	attempts int
	timer    *time.Timer
	closed   bool
	ctx      context.Context
}

type Option func(*Client)

// WithFrameHandler installs the decoded-event callback.
func WithFrameHandler(fn FrameHandler) Option {
	return func(c *Client) {
		c.onFrame = fn
	}
}

// WithStateHandler installs the state-transition callback.
func WithStateHandler(fn StateHandler) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

// WithMaxReconnects overrides how many consecutive reconnect attempts are
// made before giving up.
func WithMaxReconnects(n int) Option {
	return func(c *Client) {
		c.maxReconnects = n
	}
}

// WithReconnectDelay overrides the backoff step. Attempt n waits n*step.
func WithReconnectDelay(step time.Duration) Option {
	return func(c *Client) {
		c.delayStep = step
	}
}

// WithDialer overrides the underlying dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// NewClient creates a client for the server's chat endpoint. The server URL
// uses an http or https scheme; it is translated to ws or wss.
func NewClient(serverURL string, opts ...Option) (*Client, error) {
	endpoint, err := Endpoint(serverURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		url:           endpoint,
		dialer:        websocket.DefaultDialer,
		maxReconnects: defaultMaxReconnects,
		delayStep:     defaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint translates a server base URL into the chat WebSocket URL.
func Endpoint(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws/chat"
	}
	return u.String(), nil
}

// Connect starts the connection lifecycle. It returns immediately; progress
// is reported through the state handler. The context bounds every dial.
// Exactly one logical connection exists at a time: calling Connect while a
// connection is open or a dial is in flight is a no-op.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	go c.dial()
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send marshals v to JSON and writes it on the connection. While
// disconnected it logs and returns ErrNotConnected without queueing.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected || c.conn == nil {
		slog.Warn("Dropping outbound message, not connected", "state", c.state)
		return ErrNotConnected
	}
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close shuts the client down. No further reconnects are attempted and no
// new frames are delivered; a frame already read from the wire when Close is
// called may still reach the handler.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = Disconnected
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return conn.Close()
	}
	return nil
}

func (c *Client) dial() {
	c.mu.Lock()
	if c.closed || c.state != Disconnected || c.conn != nil {
		// One logical connection at a time.
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	changed := c.setStateLocked(Connecting)
	c.mu.Unlock()
	c.notify(changed, Connecting)

	if ctx == nil {
		ctx = context.Background()
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		slog.Warn("Connection failed", "url", c.url, "error", err)
		c.mu.Lock()
		changed = c.setStateLocked(Disconnected)
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		c.notify(changed, Disconnected)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.attempts = 0
	changed = c.setStateLocked(Connected)
	c.mu.Unlock()
	c.notify(changed, Connected)

	slog.Debug("Connected", "url", c.url)
	go c.readLoop(conn)
}

// readLoop is the single reader for one connection. Frames are decoded and
// handed to the frame handler in order; undecodable frames are logged and
// dropped. Any read error, clean close included, triggers the reconnect
// path.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		ev, err := stream.Decode(data)
		if err != nil {
			slog.Warn("Dropping undecodable frame", "error", err)
			continue
		}
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		if c.onFrame != nil {
			c.onFrame(ev)
		}
	}
}

func (c *Client) handleDisconnect(conn *websocket.Conn, err error) {
	conn.Close()

	c.mu.Lock()
	if c.closed || c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	changed := c.setStateLocked(Disconnected)
	slog.Info("Connection lost", "error", err)
	c.scheduleReconnectLocked()
	c.mu.Unlock()
	c.notify(changed, Disconnected)
}

// scheduleReconnectLocked arms the next dial. Attempt n waits n*delayStep,
// so with defaults the five retries land at 2s, 4s, 6s, 8s and 10s.
func (c *Client) scheduleReconnectLocked() {
	if c.attempts >= c.maxReconnects {
		slog.Error("Giving up after repeated connection failures", "attempts", c.attempts)
		return
	}
	c.attempts++
	delay := time.Duration(c.attempts) * c.delayStep
	slog.Info("Reconnecting", "attempt", c.attempts, "delay", delay)
	c.timer = time.AfterFunc(delay, c.dial)
}

func (c *Client) setStateLocked(s State) bool {
	if c.state == s {
		return false
	}
	c.state = s
	return true
}

// notify fires the state handler outside the mutex so the handler may call
// back into the client.
func (c *Client) notify(changed bool, s State) {
	if changed && c.onState != nil {
		c.onState(s)
	}
}
