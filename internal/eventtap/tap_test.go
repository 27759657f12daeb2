// ABOUTME: Tests for the event tap
// ABOUTME: Server and client over a loopback listener
package eventtap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestTapForwardsEvents(t *testing.T) {
	n := voice.NewNotifier()
	tap := New(n, nil)
	srv := httptest.NewServer(tap.Handler())
	defer srv.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/events")
	defer conn.Close()

	require.Eventually(t, func() bool { return tap.Clients() == 1 }, time.Second, 5*time.Millisecond)

	n.Broadcast(voice.Event{Name: "OrchHit", Position: audio.Vec3{X: 1, Y: 2, Z: 3}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, MessageTypeEvent, msg.Type)
	assert.Equal(t, "OrchHit", msg.Payload.Name)
	assert.Equal(t, 1.0, msg.Payload.X)
	assert.Equal(t, 2.0, msg.Payload.Y)
	assert.Equal(t, 3.0, msg.Payload.Z)
	assert.NotZero(t, msg.Payload.Timestamp)

	require.NoError(t, tap.Close())
	assert.Equal(t, 0, n.Len(), "close unsubscribes from the notifier")
}

func TestTapDropsDisconnectedClients(t *testing.T) {
	n := voice.NewNotifier()
	tap := New(n, nil)
	srv := httptest.NewServer(tap.Handler())
	defer srv.Close()
	defer tap.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/events")
	require.Eventually(t, func() bool { return tap.Clients() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return tap.Clients() == 0 }, time.Second, 5*time.Millisecond)

	// publishing with no clients is fine
	n.Broadcast(voice.Event{Name: "nobody"})
}

func TestTapStartListens(t *testing.T) {
	n := voice.NewNotifier()
	tap := New(n, nil)
	tap.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, tap.Start("127.0.0.1:0"))
	require.NotEmpty(t, tap.Addr())

	resp, err := http.Get("http://" + tap.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	conn := dial(t, "ws://"+tap.Addr()+"/events")
	defer conn.Close()
	require.Eventually(t, func() bool { return tap.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, tap.Close())
	assert.Equal(t, 0, tap.Clients())

	// the server closed the connection
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestClientReceivesEvents(t *testing.T) {
	n := voice.NewNotifier()
	tap := New(n, nil)
	require.NoError(t, tap.Start("127.0.0.1:0"))

	c, err := Dial(context.Background(), tap.Addr(), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return tap.Clients() == 1 }, time.Second, 5*time.Millisecond)

	n.Broadcast(voice.Event{Name: "Laser", Position: audio.Vec3{Z: -1}})

	select {
	case msg := <-c.Events():
		assert.Equal(t, "Laser", msg.Payload.Name)
		assert.Equal(t, -1.0, msg.Payload.Z)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	// closing the tap ends the client's stream
	require.NoError(t, tap.Close())
	select {
	case _, ok := <-c.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("event channel not closed")
	}
	assert.NoError(t, c.Close())
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, "127.0.0.1:1", nil)
	assert.Error(t, err)
}
