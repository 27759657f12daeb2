// ABOUTME: WebSocket client for the event tap
// ABOUTME: Connects to /events and delivers decoded messages on a channel
package eventtap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// Client receives events from a remote tap
type Client struct {
	conn   *websocket.Conn
	events chan Message
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the tap at addr (host:port)
func Dial(ctx context.Context, addr string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: "/events"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Client{
		conn:   conn,
		events: make(chan Message, sendBuffer),
		logger: logger.With("component", "eventtap-client"),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events returns decoded messages; it is closed when the connection ends
func (c *Client) Events() <-chan Message {
	return c.events
}

// Close disconnects and waits for the reader to stop
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	<-c.done
	return err
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("event stream closed", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("ignoring malformed event", "error", err)
			continue
		}
		if msg.Type != MessageTypeEvent {
			continue
		}

		select {
		case c.events <- msg:
		default:
			c.logger.Warn("event consumer too slow, dropping", "event", msg.Payload.Name)
		}
	}
}
