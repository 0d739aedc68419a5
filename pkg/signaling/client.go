package signaling

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers run a few KB;
	// code snapshots can be much larger.
	maxMessageSize = 64 * 1024
)

// Client is one live WebSocket session. All writes to the connection
// go through the buffered send channel and the writePump goroutine.
type Client struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan *Message

	mu     sync.Mutex
	closed bool
}

// NewClient registers a client with the hub and starts its pumps. The
// client is not in any room until it sends room:join.
func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	c := &Client{
		ID:   id,
		hub:  hub,
		conn: conn,
		send: make(chan *Message, 64),
	}

	hub.Register(c)

	go c.writePump()
	go c.readPump()

	return c
}

// Send queues a message for delivery. Delivery is best effort: a
// client whose buffer is full is considered stuck and dropped.
func (c *Client) Send(msg *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- msg:
	default:
		log.Warn().Str("client", c.ID).Msg("send buffer full, dropping client")
		c.closeLocked()
	}
}

// Close shuts down the transport and the send channel. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

// readPump reads frames off the websocket and dispatches them to the
// hub until the connection dies, then unregisters the client. There is
// at most one reader per connection.
func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Str("client", c.ID).Err(err).Msg("websocket read error")
			} else {
				log.Debug().Str("client", c.ID).Err(err).Msg("websocket closed")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn().Str("client", c.ID).Err(err).Msg("malformed message, skipping")
			continue
		}

		c.dispatch(&msg)
	}
}

// dispatch routes one inbound message. A peer's bad message never
// terminates anyone's session; unknown types are logged and ignored.
func (c *Client) dispatch(msg *Message) {
	switch msg.Type {
	case EventRoomJoin:
		c.hub.HandleJoin(c, msg.Data)
	case EventUserCall, EventCallAccepted, EventNegoNeeded, EventNegoDone:
		c.hub.Relay(c, msg.Type, msg.Data)
	case EventCodeChange:
		c.hub.BroadcastCode(c, msg.Data)
	case EventUserDisconnect:
		c.hub.HandleLeave(c)
	default:
		log.Warn().Str("client", c.ID).Str("type", msg.Type).Msg("unknown message type")
	}
}

// writePump writes queued messages and periodic pings to the
// websocket. There is at most one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Debug().Str("client", c.ID).Err(err).Msg("websocket write error")
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
