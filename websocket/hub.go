package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// Define notification types
const (
	NotificationTypeConnected   = "connected"
	NotificationTypePostCreated = "post_created"
	NotificationTypePostDeleted = "post_deleted"
)

const writeWait = 10 * time.Second

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	Conn *websocket.Conn
	send chan Notification
}

// Hub maintains the set of active clients and broadcasts feed changes to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Notification
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Notification, 64),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop; it returns after Stop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.remove(client)
		case n := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- n:
				default:
					// Slow reader: drop it rather than stall every other client
					go h.Unregister(client)
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and disconnects every client
func (h *Hub) Stop() {
	close(h.done)
}

// Register adds a client to the broadcast set
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client and closes its connection
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues n for every connected client
func (h *Hub) Broadcast(n Notification) {
	select {
	case h.broadcast <- n:
	case <-h.done:
	default:
		log.Printf("WebSocket broadcast queue full, dropping %s", n.Type)
	}
}

// NotifyPostCreated tells every open page about a new post
func (h *Hub) NotifyPostCreated(post models.PostSummary) {
	h.Broadcast(Notification{
		Type:    NotificationTypePostCreated,
		Message: "A new post was published",
		Data:    post,
	})
}

// NotifyPostDeleted tells every open page that a post is gone
func (h *Hub) NotifyPostDeleted(id string) {
	h.Broadcast(Notification{
		Type:    NotificationTypePostDeleted,
		Message: "A post was removed",
		Data:    map[string]string{"id": id},
	})
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
