package websocket

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client bridges a WebSocket connection with the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID int64
	log    *slog.Logger

	// rooms is owned by the hub's run loop.
	rooms map[int64]bool
}

// NewClient constructs a Client for the given hub connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		log:    hub.log.With("user_id", userID, "remote", conn.RemoteAddr().String()),
		rooms:  make(map[int64]bool),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		_ = c.conn.Close()
		c.log.Debug("read pump stopped")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("read failed", "err", err)
			} else {
				c.log.Debug("connection closed", "err", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			c.log.Debug("ignoring non-text frame", "type", messageType)
			continue
		}
		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		if !c.hub.submit(HubMessage{client: c, rawJSON: message}) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				c.log.Debug("next writer failed", "err", err)
				return
			}
			if _, err = w.Write(message); err != nil {
				c.log.Debug("write failed", "err", err)
			}
			if err := w.Close(); err != nil {
				c.log.Debug("writer close failed", "err", err)
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

// SendMessage places a frame onto the outbound queue for this client.
// Frames are dropped when the queue is full.
func (c *Client) SendMessage(msgType string, payload interface{}) {
	jsonMsg, err := json.Marshal(WebSocketMessage{Type: msgType, Payload: payload})
	if err != nil {
		c.log.Error("marshal frame", "type", msgType, "err", err)
		return
	}

	select {
	case c.send <- jsonMsg:
	default:
		c.log.Warn("send queue full, dropping frame", "type", msgType)
	}
}
