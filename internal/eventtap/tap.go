// ABOUTME: WebSocket fan-out of audio events
// ABOUTME: Subscribes to the voice notifier and pushes each event as JSON on /events
package eventtap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

const (
	// MessageTypeEvent is the type of every pushed message
	MessageTypeEvent = "audio/event"

	sendBuffer    = 64
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Message is the JSON envelope sent to clients
type Message struct {
	Type    string       `json:"type"`
	Payload EventPayload `json:"payload"`
}

// EventPayload describes one play
type EventPayload struct {
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Timestamp int64   `json:"timestamp_us"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// Tap rebroadcasts notifier events to WebSocket clients
type Tap struct {
	notifier *voice.Notifier
	sub      voice.Subscription
	logger   *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	clients   map[string]*client
	clientsMu sync.RWMutex
	closed    bool

	httpServer *http.Server
	listener   net.Listener
	wg         sync.WaitGroup
}

// New subscribes a tap to n
func New(n *voice.Notifier, logger *slog.Logger) *Tap {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tap{
		notifier: n,
		logger:   logger.With("component", "eventtap"),
		upgrader: websocket.Upgrader{
			// local monitoring tool; browser dashboards on any origin may connect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
		mux:     http.NewServeMux(),
	}
	t.mux.HandleFunc("/events", t.handleWebSocket)
	t.sub = n.Subscribe(t.publish)
	return t
}

// Handle serves an extra route next to /events; call it before Start
func (t *Tap) Handle(pattern string, h http.Handler) {
	t.mux.Handle(pattern, h)
}

// Handler serves /events and any routes added with Handle
func (t *Tap) Handler() http.Handler {
	return t.mux
}

// Start listens on addr and serves Handler in the background
func (t *Tap) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	t.listener = ln
	t.httpServer = &http.Server{
		Handler:           t.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("event server failed", "error", err)
		}
	}()

	t.logger.Info("event tap listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listening address once started
func (t *Tap) Addr() string {
	if t.listener == nil {
		return ""
	}
	return t.listener.Addr().String()
}

// Clients returns the number of connected clients
func (t *Tap) Clients() int {
	t.clientsMu.RLock()
	defer t.clientsMu.RUnlock()
	return len(t.clients)
}

// Close unsubscribes from the notifier, disconnects clients and stops the server
func (t *Tap) Close() error {
	t.notifier.Unsubscribe(t.sub)

	t.clientsMu.Lock()
	t.closed = true
	for _, c := range t.clients {
		c.conn.Close()
	}
	t.clientsMu.Unlock()

	var err error
	if t.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = t.httpServer.Shutdown(ctx)
	}
	t.wg.Wait()
	return err
}

func (t *Tap) publish(e voice.Event) {
	msg := Message{
		Type: MessageTypeEvent,
		Payload: EventPayload{
			Name:      e.Name,
			X:         e.Position.X,
			Y:         e.Position.Y,
			Z:         e.Position.Z,
			Timestamp: time.Now().UnixMicro(),
		},
	}

	t.clientsMu.RLock()
	defer t.clientsMu.RUnlock()

	for _, c := range t.clients {
		select {
		case c.send <- msg:
		default:
			t.logger.Warn("dropping event for slow client", "client", c.id, "event", e.Name)
		}
	}
}

func (t *Tap) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan Message, sendBuffer),
	}

	t.clientsMu.Lock()
	if t.closed {
		t.clientsMu.Unlock()
		conn.Close()
		return
	}
	t.clients[c.id] = c
	t.wg.Add(1)
	t.clientsMu.Unlock()
	defer t.wg.Done()

	t.logger.Info("event client connected", "client", c.id, "remote", r.RemoteAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.writer(c)
	}()

	// Clients only listen; reading services control frames and detects disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.logger.Debug("event client read error", "client", c.id, "error", err)
			}
			break
		}
	}

	t.clientsMu.Lock()
	delete(t.clients, c.id)
	t.clientsMu.Unlock()
	close(c.send)
	<-done
	conn.Close()

	t.logger.Info("event client disconnected", "client", c.id)
}

func (t *Tap) writer(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				t.logger.Error("failed to marshal event", "error", err)
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				t.logger.Debug("event write failed", "client", c.id, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}
