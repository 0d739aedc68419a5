package signaling

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub owns all signaling state: the set of live clients, the
// Connection Registry and the Room Membership Table. Every mutation
// goes through the Hub mutex, so each inbound message's state
// transition is atomic as far as other connections can observe.
// Outbound delivery is fire-and-forget via per-client send buffers.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*Client
	registry *Registry
	rooms    *RoomTable
}

// NewHub creates a Hub with empty tables.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		registry: NewRegistry(),
		rooms:    NewRoomTable(),
	}
}

// Register records a freshly connected client. The client is not in
// any room until it sends room:join.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.registry.Register(c.ID)
	h.mu.Unlock()

	log.Info().Str("client", c.ID).Msg("client registered")
}

// Unregister tears down all state for a client whose transport closed
// and releases its connection. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		h.leaveLocked(c.ID)
	}
	h.mu.Unlock()

	c.Close()
	log.Info().Str("client", c.ID).Msg("client unregistered")
}

// HandleJoin processes a room:join request: records the identity, adds
// the client to the room, confirms to the joiner with the full member
// list and announces the arrival to everyone else in the room.
func (h *Hub) HandleJoin(c *Client, data map[string]interface{}) {
	email, _ := data["email"].(string)
	roomID, _ := data["room"].(string)
	if roomID == "" {
		log.Warn().Str("client", c.ID).Msg("join with empty room id ignored")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// One room per connection: joining a new room departs the old one,
	// with the usual notification to whoever stays behind.
	if prev, ok := h.rooms.RoomOf(c.ID); ok && prev != roomID {
		h.departLocked(c.ID, prev)
	}

	rejoin := h.rooms.IsMember(roomID, c.ID)
	h.registry.SetIdentity(c.ID, email)
	h.rooms.Join(roomID, c.ID)

	members := h.memberListLocked(roomID)

	c.Send(&Message{Type: EventRoomJoined, Data: map[string]interface{}{
		"clients":  members,
		"email":    email,
		"socketId": c.ID,
		"room":     roomID,
	}})

	if rejoin {
		// Already a member: refresh the joiner's snapshot, but do not
		// re-announce the arrival.
		return
	}

	for id := range h.rooms.Members(roomID) {
		peer, ok := h.clients[id]
		if !ok || id == c.ID {
			continue
		}
		peer.Send(&Message{Type: EventUserJoined, Data: map[string]interface{}{
			"email": email,
			"id":    c.ID,
		}})
		peer.Send(&Message{Type: EventRoomJoined, Data: map[string]interface{}{
			"clients":  members,
			"email":    email,
			"socketId": c.ID,
			"room":     roomID,
		}})
	}

	log.Info().Str("client", c.ID).Str("email", email).Str("room", roomID).
		Int("members", h.rooms.Count(roomID)).Msg("joined room")
}

// HandleLeave processes an explicit user:disconnect or a transport
// close. Idempotent: once the client's state is gone, further calls do
// nothing and emit nothing.
func (h *Hub) HandleLeave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c.ID)
}

func (h *Hub) leaveLocked(connID string) {
	if roomID, ok := h.rooms.RoomOf(connID); ok {
		h.departLocked(connID, roomID)
	}
	h.registry.Remove(connID)
}

// departLocked removes connID from roomID and tells the remaining
// members who left. Caller holds h.mu.
func (h *Hub) departLocked(connID, roomID string) {
	email := h.registry.Identity(connID)
	h.rooms.Leave(roomID, connID)

	for id := range h.rooms.Members(roomID) {
		if peer, ok := h.clients[id]; ok {
			peer.Send(&Message{Type: EventUserLeft, Data: map[string]interface{}{
				"email": email,
				"id":    connID,
			}})
		}
	}

	log.Info().Str("client", connID).Str("email", email).Str("room", roomID).Msg("left room")
}

// Relay forwards a call-setup message to the single recipient named in
// the payload's "to" field, tagged with the sender's id. The relay
// keeps no call state; a missing recipient means the message is
// dropped (the caller's handshake simply never completes and is timed
// out client-side).
func (h *Hub) Relay(c *Client, event string, data map[string]interface{}) {
	to, _ := data["to"].(string)

	h.mu.Lock()
	target, ok := h.clients[to]
	h.mu.Unlock()

	if !ok {
		log.Warn().Str("event", event).Str("from", c.ID).Str("to", to).
			Msg("relay target not connected, dropping")
		return
	}

	payload := make(map[string]interface{}, len(data))
	for k, v := range data {
		if k == "to" {
			continue
		}
		payload[k] = v
	}
	payload["from"] = c.ID

	target.Send(&Message{Type: outboundEvent(event), Data: payload})
	log.Debug().Str("event", event).Str("from", c.ID).Str("to", to).Msg("relayed")
}

// outboundEvent maps an inbound signaling event to the event name the
// recipient listens for.
func outboundEvent(event string) string {
	switch event {
	case EventUserCall:
		return EventIncomingCall
	case EventNegoDone:
		return EventNegoFinal
	default:
		return event
	}
}

// BroadcastCode fans a code:change out to every other member of the
// sender's room as code:sync. The code payload is an opaque string;
// the server never inspects or diffs it.
func (h *Hub) BroadcastCode(c *Client, data map[string]interface{}) {
	roomID, _ := data["roomId"].(string)
	if roomID == "" {
		roomID, _ = data["room"].(string)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if roomID == "" {
		roomID, _ = h.rooms.RoomOf(c.ID)
	}
	if roomID == "" {
		log.Warn().Str("client", c.ID).Msg("code change with no room, dropping")
		return
	}

	payload := map[string]interface{}{"code": data["code"]}
	if pos, ok := data["cursorPosition"]; ok {
		payload["cursorPosition"] = pos
	}

	sent := 0
	for id := range h.rooms.Members(roomID) {
		if id == c.ID {
			continue
		}
		if peer, ok := h.clients[id]; ok {
			peer.Send(&Message{Type: EventCodeSync, Data: payload})
			sent++
		}
	}

	log.Debug().Str("client", c.ID).Str("room", roomID).Int("recipients", sent).Msg("code broadcast")
}

// ActiveRooms returns the IDs of rooms that currently have members.
func (h *Hub) ActiveRooms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms.ActiveRooms()
}

// memberListLocked builds the enriched member list for roomID. Caller
// holds h.mu.
func (h *Hub) memberListLocked(roomID string) []ClientInfo {
	members := make([]ClientInfo, 0, h.rooms.Count(roomID))
	for id := range h.rooms.Members(roomID) {
		members = append(members, ClientInfo{
			SocketID: id,
			Email:    h.registry.Identity(id),
		})
	}
	return members
}
