package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg, ok := <-c.Messages():
		require.True(t, ok, "channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestHubRoutesByOrganization(t *testing.T) {
	h := startHub(t)
	a := h.Subscribe("org-a")
	b := h.Subscribe("org-b")
	require.Eventually(t, func() bool { return h.ClientCount("org-a") == 1 && h.ClientCount("org-b") == 1 }, time.Second, 5*time.Millisecond)

	h.Publish("org-a", Event{Type: StandUpdated, StandID: "s1", Status: "reserved"})

	ev := receive(t, a)
	assert.Equal(t, StandUpdated, ev.Type)
	assert.Equal(t, "reserved", ev.Status)

	select {
	case <-b.Messages():
		t.Fatal("org-b received org-a's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := startHub(t)
	c := h.Subscribe("org")
	h.Unsubscribe(c)

	_, ok := <-c.Messages()
	assert.False(t, ok)
	assert.Equal(t, 0, h.ClientCount("org"))
}

func TestHubDropsSlowClient(t *testing.T) {
	h := startHub(t)
	_ = h.Subscribe("org")
	require.Eventually(t, func() bool { return h.ClientCount("org") == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBuffer+5; i++ {
		h.Publish("org", Event{Type: StandUpdated, StandID: "s"})
		time.Sleep(time.Millisecond)
	}
	assert.Eventually(t, func() bool { return h.ClientCount("org") == 0 }, time.Second, 5*time.Millisecond)
}

func TestSubscribeAfterStop(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.Nil(t, h.Subscribe("org"))
}

func TestServeWS(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, "org")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount("org") == 1 }, time.Second, 5*time.Millisecond)

	h.Publish("org", Event{Type: AlertRaised, StandID: "s9"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, AlertRaised, ev.Type)
	assert.Equal(t, "s9", ev.StandID)
}
