// Package notify maintains the receive-only WebSocket channel the Anvil
// server uses to signal external file changes. The client is an explicit
// object constructed once at startup and handed to consumers; there is no
// package-level singleton, so lifecycle and dialing stay test-injectable.
//
// Delivery guarantees are deliberately thin: listeners run synchronously in
// registration order, repeated events are not de-duplicated, and ordering is
// whatever the socket provides.
package notify

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types sent by the server.
const (
	TypeConnected  = "connected"
	TypeFileChange = "file-change"
)

// Message is one inbound notification. The client never sends anything.
type Message struct {
	Type       string `json:"type"`
	ChangeType string `json:"changeType,omitempty"`
	FilePath   string `json:"filePath,omitempty"`
}

// State is the connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// ErrClosed is returned by Connect after Close.
var ErrClosed = errors.New("notify client is closed")

// Listener receives each parsed message. A panicking listener is recovered
// and logged; delivery to later listeners continues.
type Listener func(Message)

// Options tunes the reconnect policy. Zero values mean the defaults the
// server contract assumes: 3 s between attempts, 5 attempts, log.Printf.
type Options struct {
	RetryDelay  time.Duration
	MaxAttempts int
	Logf        func(format string, args ...any)
}

type listenerEntry struct {
	id int
	fn Listener
}

// Client is a reconnecting notification subscriber. All methods are safe
// for concurrent use.
type Client struct {
	url  string
	opts Options
	dial func(url string) (*websocket.Conn, error)

	mu        sync.Mutex
	state     State
	conn      *websocket.Conn
	listeners []listenerEntry
	nextID    int
	attempts  int
	timer     *time.Timer
	closed    bool
}

// New returns a client for the notification socket at url (ws:// or wss://).
// It does not dial until Connect.
func New(url string, opts Options) *Client {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 3 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}
	return &Client{
		url:  url,
		opts: opts,
		dial: func(url string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			return conn, err
		},
		state: StateDisconnected,
	}
}

// State reports the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn and returns its removal function. Listeners are
// invoked in registration order.
func (c *Client) Subscribe(fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, e := range c.listeners {
			if e.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Connect dials the server and starts the read loop. A failed dial counts
// toward the reconnect budget and schedules the next attempt itself, so
// callers may ignore the returned error when fire-and-forget is fine.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.mu.Unlock()

	conn, err := c.dial(c.url)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// ForceReconnect resets the attempt counter — including after the client
// has given up — and dials again unless already connected.
func (c *Client) ForceReconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.attempts = 0
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	connected := c.state != StateDisconnected
	c.mu.Unlock()

	if !connected {
		c.Connect()
	}
}

// Close shuts the connection down permanently.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.opts.Logf("notify: dropping unparseable message: %v", err)
			continue
		}
		c.dispatch(msg)
	}

	c.mu.Lock()
	stale := c.conn != conn // Close or a forced replacement already handled it
	if !stale {
		c.conn = nil
		c.state = StateDisconnected
	}
	closed := c.closed
	c.mu.Unlock()

	if !closed && !stale {
		c.scheduleReconnect()
	}
}

func (c *Client) dispatch(msg Message) {
	c.mu.Lock()
	entries := make([]listenerEntry, len(c.listeners))
	copy(entries, c.listeners)
	c.mu.Unlock()

	for _, e := range entries {
		c.invoke(e.fn, msg)
	}
}

func (c *Client) invoke(fn Listener, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			c.opts.Logf("notify: listener panic: %v", r)
		}
	}()
	fn(msg)
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.timer != nil || c.state != StateDisconnected {
		return
	}
	if c.attempts >= c.opts.MaxAttempts {
		c.opts.Logf("notify: giving up after %d reconnect attempts", c.attempts)
		return
	}
	c.attempts++
	c.opts.Logf("notify: reconnecting in %s (attempt %d/%d)", c.opts.RetryDelay, c.attempts, c.opts.MaxAttempts)
	c.timer = time.AfterFunc(c.opts.RetryDelay, func() {
		c.mu.Lock()
		c.timer = nil
		c.mu.Unlock()
		c.Connect()
	})
}
