package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/response"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

// DefaultHub is the process-wide hub. main starts its dispatch loop; without
// it events are buffered and silently dropped, which is what tests want.
var DefaultHub = NewHub()

// BroadcastStatusChange pushes a transition event through the default hub.
func BroadcastStatusChange(resourceType string, resourceID uuid.UUID, from, to string, changedBy uuid.UUID) {
	DefaultHub.NotifyStatusChange(StatusEvent{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		FromStatus:   from,
		ToStatus:     to,
		ChangedBy:    changedBy,
	})
}

// Client represents a single connected WebSocket client
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub maintains the set of active clients and broadcasts status events to
// connected dashboards.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Println("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Println("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// StatusEvent is pushed to every connected client when a record transitions.
type StatusEvent struct {
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	ChangedBy    uuid.UUID `json:"changed_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NotifyStatusChange broadcasts a transition. Events are advisory; when the
// buffer is full they are dropped rather than stalling the request.
func (h *Hub) NotifyStatusChange(event StatusEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to encode status event: %v", err)
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
	}
}

// UpgradeGuard authenticates the connection via a token query param before
// the protocol upgrade happens.
func (h *Hub) UpgradeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		userID, err := utils.ParseJWT(c.Query("token"))
		if err != nil || userID == uuid.Nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		var profile models.UserProfile
		if err := database.DB.First(&profile, "id = ?", userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}
		if !profile.IsActive {
			return response.Forbidden(c, "Account is deactivated")
		}

		return c.Next()
	}
}

// Handler upgrades the connection and pumps events until the peer goes away.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{Hub: h, Conn: conn, Send: make(chan []byte, 256)}
		h.register <- client

		go client.writePump()
		client.readPump()
	})
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		// Just reading to keep connection alive or handle client messages if necessary
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
	}
}
