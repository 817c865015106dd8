package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nearbuy-chat/internal/config"
	"nearbuy-chat/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var (
	ErrNotConnected = errors.New("realtime: not connected")
	ErrSendBuffer   = errors.New("realtime: send buffer full")
	ErrClosed       = errors.New("realtime: connection closed")
)

// envelope is the {type, payload} frame used in both directions.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func encodeFrame(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return json.Marshal(envelope{Type: typ, Payload: raw})
}

// Options configures a Conn.
type Options struct {
	URL     string
	Token   string
	Self    int64
	Backoff []time.Duration
	Logger  *slog.Logger
	Dialer  *websocket.Dialer
}

// OptionsFromConfig fills the transport settings from cfg.
func OptionsFromConfig(cfg *config.AppConfig, token string, self int64) Options {
	return Options{
		URL:     cfg.WSURL,
		Token:   token,
		Self:    self,
		Backoff: cfg.WSReconnectBackoff,
	}
}

// Conn is the one live connection shared by every open room. It redials with backoff
// after a drop and re-joins every joined room before reading further frames.
type Conn struct {
	url     string
	self    int64
	backoff []time.Duration
	dialer  *websocket.Dialer
	log     *slog.Logger

	mu        sync.Mutex
	send      chan []byte
	connected bool
	rooms     map[int64]*RoomChannel
	ready     chan struct{}

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func NewConn(opts Options) (*Conn, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url: %w", err)
	}
	if opts.Token != "" {
		q := u.Query()
		q.Set("token", opts.Token)
		u.RawQuery = q.Encode()
	}
	backoff := opts.Backoff
	if len(backoff) == 0 {
		backoff = []time.Duration{time.Second}
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		url:     u.String(),
		self:    opts.Self,
		backoff: backoff,
		dialer:  dialer,
		log:     logger.With("component", "realtime"),
		rooms:   make(map[int64]*RoomChannel),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start runs the dial loop until ctx ends or Close is called.
func (c *Conn) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

// WaitConnected blocks until the first session is up.
func (c *Conn) WaitConnected(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Room returns the channel of roomID. It is not joined until Join is called.
func (c *Conn) Room(roomID int64) *RoomChannel {
	return &RoomChannel{conn: c, roomID: roomID, seen: make(map[int64]struct{})}
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			<-c.done
		}
	})
	return nil
}

func (c *Conn) run(ctx context.Context) {
	attempt := 0
	for {
		ws, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := c.backoff[min(attempt, len(c.backoff)-1)]
			attempt++
			c.log.Warn("dial failed, retrying", "attempt", attempt, "delay", delay, "err", err)
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return
			}
		}
		attempt = 0
		c.serve(ctx, ws)
		if ctx.Err() != nil {
			return
		}
	}
}

// serve owns one session from the re-join to the drop.
func (c *Conn) serve(ctx context.Context, ws *websocket.Conn) {
	send := make(chan []byte, 256)

	c.mu.Lock()
	rooms := make([]*RoomChannel, 0, len(c.rooms))
	for id, rc := range c.rooms {
		frame, _ := encodeFrame(models.EventJoin, models.RoomRef{RoomID: id})
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
			c.mu.Unlock()
			c.log.Warn("re-join failed", "room_id", id, "err", err)
			_ = ws.Close()
			return
		}
		rooms = append(rooms, rc)
	}
	c.send = send
	c.connected = true
	select {
	case <-c.ready:
	default:
		close(c.ready)
	}
	c.mu.Unlock()
	c.log.Info("live channel connected", "rejoined", len(rooms))

	for _, rc := range rooms {
		rc.setConnected(true)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ws.Close()
		case <-stop:
		}
	}()
	go c.writePump(ws, send)
	c.readPump(ws)
	close(stop)

	c.mu.Lock()
	c.connected = false
	c.send = nil
	close(send)
	rooms = rooms[:0]
	for _, rc := range c.rooms {
		rooms = append(rooms, rc)
	}
	c.mu.Unlock()
	c.log.Warn("live channel disconnected")

	for _, rc := range rooms {
		rc.setConnected(false)
	}
}

func (c *Conn) readPump(ws *websocket.Conn) {
	defer ws.Close()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read failed", "err", err)
			}
			return
		}
		c.dispatch(message)
	}
}

func (c *Conn) writePump(ws *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case message, ok := <-send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug("write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Conn) dispatch(message []byte) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		c.log.Warn("malformed frame", "err", err)
		return
	}

	switch env.Type {
	case models.EventNewMessage:
		var ev models.NewMessageEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			c.log.Warn("malformed new_message", "err", err)
			return
		}
		if rc := c.room(ev.RoomID); rc != nil {
			rc.deliverArrival(ev)
		}
	case models.EventMessagesRead:
		var ev models.MessagesReadEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			c.log.Warn("malformed messages_read", "err", err)
			return
		}
		if rc := c.room(ev.RoomID); rc != nil {
			rc.deliverReceipt(ev, ev.ReaderID != c.self)
		}
	case models.EventError:
		var ev models.ErrorEvent
		_ = json.Unmarshal(env.Payload, &ev)
		c.log.Warn("server rejected frame", "room_id", ev.RoomID, "code", ev.Code, "message", ev.Message)
	default:
		c.log.Debug("ignoring frame", "type", env.Type)
	}
}

func (c *Conn) room(roomID int64) *RoomChannel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[roomID]
}

func (c *Conn) join(rc *RoomChannel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[rc.roomID] = rc
	err := c.enqueueLocked(models.EventJoin, models.RoomRef{RoomID: rc.roomID})
	if errors.Is(err, ErrNotConnected) {
		rc.markDegraded()
	}
	return err
}

func (c *Conn) leave(rc *RoomChannel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rooms[rc.roomID] == rc {
		delete(c.rooms, rc.roomID)
	}
	err := c.enqueueLocked(models.EventLeave, models.RoomRef{RoomID: rc.roomID})
	if errors.Is(err, ErrNotConnected) {
		return nil
	}
	return err
}

func (c *Conn) enqueue(typ string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enqueueLocked(typ, payload)
}

func (c *Conn) enqueueLocked(typ string, payload any) error {
	if !c.connected {
		return ErrNotConnected
	}
	frame, err := encodeFrame(typ, payload)
	if err != nil {
		return err
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendBuffer
	}
}
