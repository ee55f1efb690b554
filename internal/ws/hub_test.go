package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestSendToUserReachesOnlyThatUser(t *testing.T) {
	h := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	a1 := newClient(h, nil, alice)
	a2 := newClient(h, nil, alice)
	b1 := newClient(h, nil, bob)
	h.Register(a1)
	h.Register(a2)
	h.Register(b1)
	waitFor(t, func() bool { return h.ClientCount(alice) == 2 && h.ClientCount(bob) == 1 })

	h.SendToUser(alice, "notification.created", map[string]string{"title": "hi"})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, "notification.created", env.Event)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	select {
	case <-b1.send:
		t.Fatal("bob received alice's message")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	id := uuid.New()
	c := newClient(h, nil, id)
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount(id) == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount(id) == 0 })
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestNilHubIsSafe(t *testing.T) {
	var h *Hub
	h.SendToUser(uuid.New(), "x", nil)
	assert.Zero(t, h.ClientCount(uuid.New()))
}

func TestHubCallsDoNotBlockAfterShutdown(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			h.Unregister(newClient(h, nil, uuid.New()))
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}

	late := newClient(h, nil, uuid.New())
	h.Register(late)
	_, ok := <-late.send
	assert.False(t, ok, "a client registered after shutdown is closed at once")
}
