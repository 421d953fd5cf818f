package websocket

import (
	"sync"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"

	"github.com/google/uuid"
)

// Registry tracks the currently subscribed observer connections and fans
// notifications out to all of them. Delivery to one observer never blocks
// or fails delivery to others; an observer whose send errors is pruned so
// it does not accumulate permanent broadcast overhead.
type Registry struct {
	observers map[string]domain.ObserverConn
	mutex     sync.RWMutex
	log       logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		observers: make(map[string]domain.ObserverConn),
		log:       log,
	}
}

func (r *Registry) Register(conn domain.ObserverConn) string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	id := uuid.NewString()
	r.observers[id] = conn

	r.log.Info("Observer registered", "observer_id", id, "observers", len(r.observers))
	return id
}

func (r *Registry) Unregister(id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.observers[id]; !exists {
		return
	}
	delete(r.observers, id)

	r.log.Info("Observer unregistered", "observer_id", id, "observers", len(r.observers))
}

// Broadcast delivers msg to every registered observer. Failures are logged
// per observer and the failing connection is pruned; nothing propagates to
// the caller.
func (r *Registry) Broadcast(msg *domain.BroadcastMessage) {
	for id, conn := range r.snapshot() {
		if err := conn.Send(msg); err != nil {
			r.log.Error("Failed to deliver broadcast, pruning observer",
				"observer_id", id, "error", err)
			r.prune(id, conn)
		}
	}
}

// PingSweep writes a control ping to every observer and prunes the ones
// that fail, so half-closed peers do not linger between broadcasts.
func (r *Registry) PingSweep() {
	for id, conn := range r.snapshot() {
		if err := conn.Ping(); err != nil {
			r.log.Info("Observer failed ping, pruning", "observer_id", id, "error", err)
			r.prune(id, conn)
		}
	}
}

func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.observers)
}

// snapshot copies the observer set so sends happen outside the lock.
func (r *Registry) snapshot() map[string]domain.ObserverConn {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	observers := make(map[string]domain.ObserverConn, len(r.observers))
	for id, conn := range r.observers {
		observers[id] = conn
	}
	return observers
}

func (r *Registry) prune(id string, conn domain.ObserverConn) {
	r.Unregister(id)
	if err := conn.Close(); err != nil {
		r.log.Debug("Failed to close pruned observer", "observer_id", id, "error", err)
	}
}
