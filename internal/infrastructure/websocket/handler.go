package websocket

import (
	"net/http"
	"sync"
	"time"

	"auctionhouse/internal/domain"
	"auctionhouse/pkg/logger"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Observers connect from arbitrary origins
	},
}

// SubscribeHandler upgrades an HTTP request to a websocket connection and
// registers it as a broadcast observer. The connection stays registered
// until the peer disconnects or fails a delivery.
type SubscribeHandler struct {
	registry *Registry
	log      logger.Logger
}

func NewSubscribeHandler(registry *Registry, log logger.Logger) *SubscribeHandler {
	return &SubscribeHandler{
		registry: registry,
		log:      log,
	}
}

func (h *SubscribeHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	observer := NewObserverConn(conn)
	id := h.registry.Register(observer)

	// Drain the read side so close frames are processed; observers never
	// send application data.
	go h.readLoop(id, observer)
}

func (h *SubscribeHandler) readLoop(id string, observer *ObserverConn) {
	defer func() {
		h.registry.Unregister(id)
		observer.Close()
	}()

	for {
		if _, _, err := observer.conn.ReadMessage(); err != nil {
			h.log.Debug("Observer connection closed", "observer_id", id, "error", err)
			return
		}
	}
}

// ObserverConn wraps a gorilla websocket connection as a broadcast
// observer. Writes are serialized under a mutex since broadcasts and ping
// sweeps run on different goroutines.
type ObserverConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewObserverConn(conn *websocket.Conn) *ObserverConn {
	return &ObserverConn{conn: conn}
}

func (c *ObserverConn) Send(msg *domain.BroadcastMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *ObserverConn) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (c *ObserverConn) Close() error {
	return c.conn.Close()
}
