package realtime

import (
	"encoding/json"
	"log/slog"
)

// Event is the wire envelope for every message pushed to clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Authorizer decides whether a connected user may receive a given
// order's tracking events. Wired in from the handlers layer so the hub
// stays ignorant of the database.
type Authorizer func(orderID string, userID uint, role string) bool

// RoomForOrder returns the room name for an order's tracking channel.
func RoomForOrder(orderID string) string {
	return "order_" + orderID
}

type subscription struct {
	client *Client
	room   string
	// order id the room maps to, used for the authorization check
	orderID string
	join    bool
}

type roomMessage struct {
	room    string
	payload []byte
}

// Hub owns all connected clients and room membership. All state is
// confined to the Run goroutine; the only cross-goroutine communication
// is over the channels below. Delivery is fire-and-forget: a client
// whose send buffer is full is dropped, never waited on.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	roomcast   chan roomMessage
	subscribe  chan subscription
	authorize  Authorizer
}

func NewHub(authorize Authorizer) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		roomcast:   make(chan roomMessage, 64),
		subscribe:  make(chan subscription),
		authorize:  authorize,
	}
}

// Run processes hub events until the process exits. Start it once, in
// its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			h.drop(client)

		case sub := <-h.subscribe:
			if !sub.join {
				h.leaveRoom(sub.client, sub.room)
				continue
			}
			if h.authorize != nil && !h.authorize(sub.orderID, sub.client.userID, sub.client.role) {
				sub.client.trySend(mustMarshal("error", "not authorized to track this order"))
				continue
			}
			if h.rooms[sub.room] == nil {
				h.rooms[sub.room] = make(map[*Client]bool)
			}
			h.rooms[sub.room][sub.client] = true

		case payload := <-h.broadcast:
			for client := range h.clients {
				if !client.trySend(payload) {
					h.drop(client)
				}
			}

		case msg := <-h.roomcast:
			for client := range h.rooms[msg.room] {
				if !client.trySend(msg.payload) {
					h.drop(client)
				}
			}
		}
	}
}

// Broadcast pushes an event to every connected client.
func (h *Hub) Broadcast(event string, data any) {
	payload, ok := marshalEvent(event, data)
	if !ok {
		return
	}
	h.broadcast <- payload
}

// EmitToRoom pushes an event to clients subscribed to a room.
func (h *Hub) EmitToRoom(room, event string, data any) {
	payload, ok := marshalEvent(event, data)
	if !ok {
		return
	}
	h.roomcast <- roomMessage{room: room, payload: payload}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for room := range h.rooms {
		h.leaveRoom(client, room)
	}
	close(client.send)
}

func (h *Hub) leaveRoom(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func marshalEvent(event string, data any) ([]byte, bool) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		slog.Error("realtime: marshal event failed", "event", event, "err", err)
		return nil, false
	}
	return payload, true
}

func mustMarshal(event string, data any) []byte {
	payload, _ := json.Marshal(Event{Event: event, Data: data})
	return payload
}
