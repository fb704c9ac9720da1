package notify

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestServer upgrades each connection and pushes the given payloads.
func newTestServer(t *testing.T, payloads []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, p := range payloads {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(p)); err != nil {
				return
			}
		}
		// Keep the socket open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestDeliveryInRegistrationOrder(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, []string{
		`{"type":"connected"}`,
		`{"type":"file-change","changeType":"modified","filePath":"specs/a-capability.md"}`,
	})

	c := New(wsURL(srv), Options{Logf: t.Logf})
	defer c.Close()

	var mu sync.Mutex
	var calls []string
	c.Subscribe(func(m Message) {
		mu.Lock()
		calls = append(calls, "first:"+m.Type)
		mu.Unlock()
	})
	c.Subscribe(func(m Message) {
		mu.Lock()
		calls = append(calls, "second:"+m.Type)
		mu.Unlock()
	})

	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 4
	})

	mu.Lock()
	defer mu.Unlock()
	want := []string{"first:connected", "second:connected", "first:file-change", "second:file-change"}
	for i, w := range want {
		if calls[i] != w {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestPanickingListenerDoesNotStopDelivery(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, []string{`{"type":"file-change","filePath":"x.md"}`})

	c := New(wsURL(srv), Options{Logf: t.Logf})
	defer c.Close()

	var survived atomic.Bool
	c.Subscribe(func(Message) { panic("listener bug") })
	c.Subscribe(func(Message) { survived.Store(true) })

	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitFor(t, survived.Load)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, []string{`{"type":"connected"}`, `{"type":"connected"}`})

	c := New(wsURL(srv), Options{Logf: t.Logf})
	defer c.Close()

	var kept, removed atomic.Int32
	cancel := c.Subscribe(func(Message) { removed.Add(1) })
	cancel()
	c.Subscribe(func(Message) { kept.Add(1) })

	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitFor(t, func() bool { return kept.Load() == 2 })
	if removed.Load() != 0 {
		t.Errorf("removed listener was called %d times", removed.Load())
	}
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	var dials atomic.Int32
	c := New("ws://unreachable.invalid", Options{RetryDelay: time.Millisecond, MaxAttempts: 5, Logf: t.Logf})
	c.dial = func(string) (*websocket.Conn, error) {
		dials.Add(1)
		return nil, errors.New("refused")
	}
	defer c.Close()

	if err := c.Connect(); err == nil {
		t.Fatal("expected dial error")
	}

	// Initial dial plus five scheduled retries, then silence.
	waitFor(t, func() bool { return dials.Load() == 6 })
	time.Sleep(50 * time.Millisecond)
	if n := dials.Load(); n != 6 {
		t.Fatalf("dials = %d after give-up, want 6", n)
	}
	if c.State() != StateDisconnected {
		t.Errorf("state = %q", c.State())
	}
}

func TestForceReconnectResetsAttemptCounter(t *testing.T) {
	t.Parallel()
	var dials atomic.Int32
	c := New("ws://unreachable.invalid", Options{RetryDelay: time.Millisecond, MaxAttempts: 2, Logf: t.Logf})
	c.dial = func(string) (*websocket.Conn, error) {
		dials.Add(1)
		return nil, errors.New("refused")
	}
	defer c.Close()

	c.Connect()
	waitFor(t, func() bool { return dials.Load() == 3 })
	time.Sleep(20 * time.Millisecond)
	if n := dials.Load(); n != 3 {
		t.Fatalf("dials = %d before force, want 3", n)
	}

	c.ForceReconnect()
	// Forced dial plus a fresh retry budget.
	waitFor(t, func() bool { return dials.Load() == 6 })
}

func TestReconnectsAfterServerDrop(t *testing.T) {
	t.Parallel()
	upgrader := websocket.Upgrader{}
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if conns.Add(1) == 1 {
			conn.Close() // drop the first connection immediately
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	c := New(wsURL(srv), Options{RetryDelay: 5 * time.Millisecond, Logf: t.Logf})
	defer c.Close()

	var got atomic.Bool
	c.Subscribe(func(m Message) {
		if m.Type == TypeConnected {
			got.Store(true)
		}
	})

	c.Connect()
	waitFor(t, got.Load)
	if c.State() != StateConnected {
		t.Errorf("state = %q", c.State())
	}
}
