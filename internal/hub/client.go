package hub

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound join/leave frames.
	maxMessageSize = 512
)

// clientMessage is an inbound frame from a websocket client.
type clientMessage struct {
	Action    string    `json:"action"` // "join" or "leave"
	BookingID uuid.UUID `json:"booking_id"`
}

// serverMessage is an outbound frame pushed to a websocket client.
type serverMessage struct {
	Event     string    `json:"event"`
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
}

// Client binds one websocket connection to a hub subscriber. Closing the
// connection tears down all of its room memberships; in-flight transition
// requests issued over HTTP are unaffected.
type Client struct {
	hub    *Hub
	sub    *Subscriber
	conn   *websocket.Conn
	logger *zap.Logger
}

// NewClient registers a websocket connection with the hub.
func NewClient(h *Hub, conn *websocket.Conn, connectionID string, logger *zap.Logger) *Client {
	return &Client{
		hub:    h,
		sub:    h.NewSubscriber(connectionID),
		conn:   conn,
		logger: logger,
	}
}

// Run services the connection until it closes. It starts the write pump and
// blocks on the read pump.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump consumes join/leave frames until the connection drops, then
// unsubscribes the client everywhere.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.sub)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error",
					zap.String("connection_id", c.sub.id),
					zap.Error(err),
				)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("ignoring malformed websocket frame",
				zap.String("connection_id", c.sub.id),
			)
			continue
		}

		switch msg.Action {
		case "join":
			c.hub.Subscribe(msg.BookingID, c.sub)
		case "leave":
			c.hub.Unsubscribe(msg.BookingID, c.sub)
		}
	}
}

// writePump drains the subscriber queue onto the wire and keeps the
// connection alive with pings. It exits when the hub closes the queue.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.sub.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frame := serverMessage{
				Event:     "status-update",
				BookingID: evt.BookingID,
				Status:    evt.Status,
				Message:   evt.Message,
			}
			if err := c.conn.WriteJSON(frame); err != nil {
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
