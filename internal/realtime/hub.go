package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"oneflow/internal/logger"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// Hub keeps one chat room per project and fans events out to every connected
// client in that room. Events are produced after the triggering row is
// persisted; delivery is best effort with no replay.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: map[int]map[*websocket.Conn]struct{}{}}
}

type event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Join upgrades the request and parks the connection in the project's room
// until the client goes away. Inbound frames are drained and discarded;
// clients talk to the server over the REST API, the socket is downstream only.
func (h *Hub) Join(w http.ResponseWriter, r *http.Request, projectID int) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return err
	}
	h.add(projectID, conn)
	logger.Info("chat.join", "project_id", projectID)

	defer func() {
		h.remove(projectID, conn)
		conn.Close(websocket.StatusNormalClosure, "")
		logger.Info("chat.leave", "project_id", projectID)
	}()

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return nil
		}
	}
}

// Broadcast sends an event to every client in the project's room. Slow or
// dead clients are dropped from the room on write failure.
func (h *Hub) Broadcast(projectID int, ev string, payload any) {
	data, err := json.Marshal(event{Event: ev, Payload: payload})
	if err != nil {
		logger.Error("chat.broadcast marshal failed", "event", ev, "err", err)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[projectID]))
	for c := range h.rooms[projectID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			h.remove(projectID, c)
			c.Close(websocket.StatusPolicyViolation, "write failed")
		}
	}
}

func (h *Hub) add(projectID int, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[projectID] == nil {
		h.rooms[projectID] = map[*websocket.Conn]struct{}{}
	}
	h.rooms[projectID][c] = struct{}{}
}

func (h *Hub) remove(projectID int, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[projectID], c)
	if len(h.rooms[projectID]) == 0 {
		delete(h.rooms, projectID)
	}
}
