package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST layer already authenticated the request; cross-origin
	// browser clients are expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one connected WebSocket peer.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	role   string
}

// trySend queues a payload without blocking. Returns false when the
// client's buffer is full, which the hub treats as a dead peer.
func (c *Client) trySend(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// inbound is what clients send us: join_tracking / leave_tracking with
// an order id, or the legacy update_location carrying a GPS fix.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type locationPayload struct {
	OrderID  json.Number `json:"order_id"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// LocationUpdate is the room-scoped event emitted for every courier GPS
// sample.
type LocationUpdate struct {
	OrderID string `json:"order_id"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("realtime: unexpected close", "err", err)
			}
			return
		}
		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Event {
		case "join_tracking":
			if orderID, ok := parseOrderID(msg.Data); ok {
				c.hub.subscribe <- subscription{client: c, room: RoomForOrder(orderID), orderID: orderID, join: true}
			}
		case "leave_tracking":
			if orderID, ok := parseOrderID(msg.Data); ok {
				c.hub.subscribe <- subscription{client: c, room: RoomForOrder(orderID), orderID: orderID, join: false}
			}
		case "update_location":
			// Legacy client-originated variant, mirrored back to the
			// room. The REST endpoint is the canonical write path.
			var p locationPayload
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				continue
			}
			orderID := p.OrderID.String()
			if c.hub.authorize != nil && !c.hub.authorize(orderID, c.userID, c.role) {
				c.trySend(mustMarshal("error", "not authorized to track this order"))
				continue
			}
			update := LocationUpdate{OrderID: orderID, Timestamp: time.Now().UTC()}
			update.Location.Lat = p.Location.Lat
			update.Location.Lng = p.Location.Lng
			c.hub.EmitToRoom(RoomForOrder(orderID), "location_update", update)
		}
	}
}

// parseOrderID accepts either a JSON string or number.
func parseOrderID(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s, true
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatUint(n, 10), true
	}
	return "", false
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades an authenticated request to a WebSocket connection
// and registers it with the hub. Expects AuthRequired to have run.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, _ := c.Get("userID")
		roleVal, _ := c.Get("role")
		userID, _ := userVal.(uint)
		role, _ := roleVal.(string)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("realtime: upgrade failed", "err", err)
			return
		}
		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
			userID: userID,
			role:   role,
		}
		hub.register <- client
		go client.writePump()
		go client.readPump()
	}
}
