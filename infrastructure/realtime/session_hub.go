package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"

	"mytube/domain/model"
)

// SessionEvent is the SSE payload for session-change pushes.
type SessionEvent struct {
	Type   model.AuthEventType `json:"type"`
	UserID string              `json:"user_id,omitempty"`
}

// Hub maintains per-client subscribers listening for session events.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan SessionEvent]struct{}
}

func NewSessionHub() *Hub {
	return &Hub{clients: make(map[string]map[chan SessionEvent]struct{})}
}

// Serve streams session events for the given client id until the connection
// closes.
func (h *Hub) Serve(c *gin.Context, clientID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan SessionEvent, 8)
	h.addSubscriber(clientID, ch)
	defer h.removeSubscriber(clientID, ch)

	// Initial comment to keep connection open
	c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: session\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(clientID string, ch chan SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[clientID] == nil {
		h.clients[clientID] = make(map[chan SessionEvent]struct{})
	}
	h.clients[clientID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(clientID string, ch chan SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.clients[clientID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.clients, clientID)
		}
	}
}

// Broadcast delivers the event to every subscriber of the client,
// non-blocking.
func (h *Hub) Broadcast(clientID string, evt SessionEvent) {
	h.mu.RLock()
	subs := h.clients[clientID]
	for ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
	h.mu.RUnlock()
}
