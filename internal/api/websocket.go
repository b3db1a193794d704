package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gravnet/engine/internal/registry"
	"github.com/gravnet/engine/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub maintains the set of active /ws/nodes clients and broadcasts the
// periodic node-snapshot frames a Streamer produces.
type Hub struct {
	clients   map[*websocket.Conn]string // conn -> connection id, for correlated log lines
	broadcast chan []byte
	mutex     sync.Mutex
}

// NewHub returns an empty, unstarted Hub. Call Run in its own goroutine to
// start broadcasting.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]string),
	}
}

// Run drains the broadcast channel, fanning each frame out to every
// connected client. It blocks until the channel closes.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client, id := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[ws %s] write error, dropping client: %v", id, err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades an HTTP request to a websocket connection and
// registers it as a broadcast target.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	id := uuid.New().String()
	h.mutex.Lock()
	h.clients[conn] = id
	h.mutex.Unlock()
	log.Printf("[ws %s] client connected", id)

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("[ws %s] client disconnected", id)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[ws %s] client error: %v", id, err)
				}
				break
			}
		}
	}()
}

// Broadcast pushes a raw frame to every connected client.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// CloseAll sends a close control frame with the given code/reason to every
// connected client and drops them, per the WS adapter's close-1011
// contract for internal errors.
func (h *Hub) CloseAll(code int, reason string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	for client, id := range h.clients {
		_ = client.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		client.Close()
		delete(h.clients, client)
		log.Printf("[ws %s] closed: %s", id, reason)
	}
}

// Streamer periodically snapshots the registry and broadcasts it through a
// Hub at the configured stream interval, per the websocket adapter
// contract. It closes with code 1011 (internal error) if a snapshot
// marshal ever fails — a marshal failure here means a bug in the adapter,
// not a client-facing error worth absorbing silently.
type Streamer struct {
	reg      *registry.Registry
	hub      *Hub
	interval time.Duration
}

// NewStreamer returns a Streamer that pushes registry snapshots through hub
// every interval.
func NewStreamer(reg *registry.Registry, hub *Hub, interval time.Duration) *Streamer {
	return &Streamer{reg: reg, hub: hub, interval: interval}
}

// Run pushes frames until stop is closed.
func (s *Streamer) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.pushFrame()
		}
	}
}

func (s *Streamer) pushFrame() {
	nodes := s.reg.List()
	responses := make([]models.NodeResponse, len(nodes))
	for i, n := range nodes {
		responses[i] = toNodeResponse(n)
	}
	frame := models.WebSocketFrame{ServerTime: time.Now().UTC(), Nodes: responses}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[ws] failed to marshal stream frame, closing clients: %v", err)
		s.hub.CloseAll(websocket.CloseInternalServerErr, "internal error")
		return
	}
	s.hub.Broadcast(data)
}
