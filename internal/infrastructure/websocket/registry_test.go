package websocket

import (
	"errors"
	"sync"
	"testing"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"

	"github.com/stretchr/testify/require"
)

// fakeConn is an observer double; broken conns fail every send and ping.
type fakeConn struct {
	mu       sync.Mutex
	broken   bool
	closed   bool
	received []string
}

func (c *fakeConn) Send(msg *domain.BroadcastMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("broken pipe")
	}
	c.received = append(c.received, msg.Message)
	return nil
}

func (c *fakeConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("broken pipe")
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.received...)
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	id1 := registry.Register(&fakeConn{})
	id2 := registry.Register(&fakeConn{})
	require.NotEqual(t, id1, id2)
	require.Equal(t, 2, registry.Len())

	registry.Unregister(id1)
	require.Equal(t, 1, registry.Len())

	// Unregistering twice is harmless
	registry.Unregister(id1)
	require.Equal(t, 1, registry.Len())
}

func TestRegistry_BroadcastEmptyRegistryIsNoop(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	registry.Broadcast(&domain.BroadcastMessage{Message: "nobody home"})
}

func TestRegistry_BroadcastIsolation(t *testing.T) {
	// A broken observer must not prevent delivery to healthy ones, and it
	// gets pruned so it does not accumulate broadcast overhead.
	registry := NewRegistry(logger.NewNop())

	healthy := &fakeConn{}
	broken := &fakeConn{broken: true}
	registry.Register(healthy)
	registry.Register(broken)

	registry.Broadcast(&domain.BroadcastMessage{Message: "New Auction is created for Item: lamp"})

	require.Equal(t, []string{"New Auction is created for Item: lamp"}, healthy.messages())
	require.Equal(t, 1, registry.Len())
	require.True(t, broken.closed)

	// A second broadcast reaches only the healthy observer
	registry.Broadcast(&domain.BroadcastMessage{Message: "again"})
	require.Len(t, healthy.messages(), 2)
}

func TestRegistry_PingSweepPrunes(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	healthy := &fakeConn{}
	broken := &fakeConn{broken: true}
	registry.Register(healthy)
	registry.Register(broken)

	registry.PingSweep()

	require.Equal(t, 1, registry.Len())
	require.True(t, broken.closed)
	require.False(t, healthy.closed)
}
