/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Client struct, the WebSocket transport for one
connection. It runs the read and write pumps, translates wire frames into
Hub events, and implements the Sink interface for outbound delivery.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cinechat/internal/app/user"
	"cinechat/internal/pkg/logx"
)

const (
	// writeWait bounds a single write to the WebSocket connection.
	writeWait = 10 * time.Second

	// pongWait is how long the server waits for a Pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod is the heartbeat interval; it must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxFrameSize is the maximum inbound frame size in bytes.
	maxFrameSize = 8192

	// sendQueueSize buffers outbound events per connection. When the queue
	// fills, events are dropped for this connection only.
	sendQueueSize = 256
)

// Client is one live WebSocket connection bound to an identity.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	connID   string
	identity user.Identity

	send chan []byte
	done chan struct{}

	logger zerolog.Logger
}

// NewClient wraps an upgraded WebSocket connection for the given identity.
func NewClient(hub *Hub, conn *websocket.Conn, connID string, identity user.Identity) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		connID:   connID,
		identity: identity,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
		logger: logx.Logger().With().
			Str("conn_id", connID).
			Str("user_id", identity.ID).
			Logger(),
	}
}

// Send implements Sink. It marshals the event and queues it without
// blocking; a full queue or a finished connection drops the event and
// reports the miss to the caller.
func (c *Client) Send(event ServerEvent) error {
	frame, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	select {
	case <-c.done:
		return fmt.Errorf("connection already closed")
	case c.send <- frame:
		return nil
	default:
		return fmt.Errorf("send queue full, %s event dropped", event.Type)
	}
}

// ReadPump reads frames from the connection, maintains the heartbeat, and
// dispatches decoded events to the Hub. It always performs disconnect
// cleanup on exit, whether or not the transport closed gracefully.
func (c *Client) ReadPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly.")
			}
			return
		}

		c.processInbound(frame)
	}
}

// teardown runs the disconnect path exactly once: the Hub tears down the
// session, the write pump is released, and the socket is closed.
func (c *Client) teardown() {
	c.hub.Disconnect(c.connID)

	select {
	case <-c.done:
	default:
		close(c.done)
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error during teardown.")
	}
}

// processInbound decodes one wire frame and hands it to the Hub. Unknown
// or malformed frames are rejected here, at the boundary.
func (c *Client) processInbound(frame []byte) {
	var ev ClientEvent
	if err := json.Unmarshal(frame, &ev); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON, frame dropped.")
		return
	}

	switch ev.Type {
	case EventJoinRoom:
		var payload JoinRoomPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Invalid join_room payload, dropped.")
			return
		}
		c.hub.JoinRoom(c.connID, payload)

	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Invalid send_message payload, dropped.")
			return
		}
		c.hub.SendMessage(c.connID, payload)

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Invalid typing payload, dropped.")
			return
		}
		c.hub.SetTyping(c.connID, payload)

	default:
		c.logger.Warn().Str("event_type", string(ev.Type)).Msg("Unsupported event type, dropped.")
	}
}

// WritePump drains the send queue to the connection and keeps the heartbeat
// alive. It exits when the connection tears down or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump.")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn().Err(err).Msg("Write failed, closing connection.")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close message.")
			}
			return
		}
	}
}
