package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Refetch signals pushed to browsers. They carry no state, only the
// resource that changed.
const (
	ProductsUpdated      = "PRODUCTS_UPDATED"
	TransactionsUpdated  = "TRANSACTIONS_UPDATED"
	ExpensesUpdated      = "EXPENSES_UPDATED"
	SettingsUpdated      = "SETTINGS_UPDATED"
	TombolaUpdated       = "TOMBOLA_UPDATED"
	UsersUpdated         = "USERS_UPDATED"
	ExpenseNotesUpdated  = "EXPENSE_NOTES_UPDATED"
	NotificationsUpdated = "NOTIFICATIONS_UPDATED"
	EasterEggsUpdated    = "EASTER_EGGS_UPDATED"
	MarketUpdated        = "MARKET_UPDATED"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Broadcaster is the narrow view services use to signal changes
type Broadcaster interface {
	Broadcast(eventType string)
}

type message struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// Client is a single websocket connection
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
}

// Hub fans refetch signals out to every connected client
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*Client]bool
	mu         sync.RWMutex
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a hub. allowedOrigins empty means any origin is accepted.
func NewHub(allowedOrigins []string) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				return origins[r.Header.Get("Origin")]
			},
		},
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a refetch signal. It never blocks; when the hub is
// saturated the signal is dropped.
func (h *Hub) Broadcast(eventType string) {
	payload, err := json.Marshal(message{Type: eventType, At: time.Now().UTC()})
	if err != nil {
		zap.L().Warn("encode broadcast", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		zap.L().Warn("broadcast channel full, dropping signal", zap.String("type", eventType))
	}
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and attaches the connection to the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 32),
		userID: userID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump(h)
	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only exists to observe pongs and the close handshake; clients
// never send data on this channel.
func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("websocket closed", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}
	}
}
