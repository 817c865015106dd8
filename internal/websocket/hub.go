package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"nearbuy-chat/internal/models"
	"nearbuy-chat/internal/obs"
	"nearbuy-chat/internal/store"
)

// Hub maintains active WebSocket clients, their room memberships, and fans
// room events out to every joined connection.
type Hub struct {
	clients map[int64]map[*Client]bool
	rooms   map[int64]map[*Client]bool
	mu      sync.RWMutex

	processMessage chan HubMessage
	register       chan *Client
	unregister     chan *Client
	done           chan struct{}

	roomStore    RoomLookup
	messageStore MessageWriter
	metrics      *obs.Metrics
	log          *slog.Logger
	storeTimeout time.Duration
}

// NewHub returns a Hub wired to the provided stores. metrics may be nil.
func NewHub(rooms RoomLookup, messages MessageWriter, metrics *obs.Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:        make(map[int64]map[*Client]bool),
		rooms:          make(map[int64]map[*Client]bool),
		processMessage: make(chan HubMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		roomStore:      rooms,
		messageStore:   messages,
		metrics:        metrics,
		log:            logger.With("component", "hub"),
		storeTimeout:   5 * time.Second,
	}
}

// Run processes hub events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	h.log.Info("hub started")
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.userID]; !ok {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			total := len(h.clients[client.userID])
			h.mu.Unlock()
			h.metrics.ConnectionOpened()
			client.log.Debug("client registered", "connections", total)

		case client := <-h.unregister:
			h.remove(client)

		case hubMsg := <-h.processMessage:
			h.handleIncomingMessage(ctx, hubMsg.client, hubMsg.rawJSON)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, userClients := range h.clients {
		for client := range userClients {
			close(client.send)
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
	h.rooms = make(map[int64]map[*Client]bool)
	h.log.Info("hub stopped")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userClients, ok := h.clients[client.userID]
	if !ok || !userClients[client] {
		return
	}
	for roomID := range client.rooms {
		h.leaveLocked(client, roomID)
	}
	close(client.send)
	delete(userClients, client)
	if len(userClients) == 0 {
		delete(h.clients, client.userID)
	}
	h.metrics.ConnectionClosed()
	client.log.Debug("client unregistered", "remaining", len(userClients))
}

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) submit(m HubMessage) bool {
	select {
	case h.processMessage <- m:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) handleIncomingMessage(ctx context.Context, sender *Client, rawJSON []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(rawJSON, &msg); err != nil {
		sender.log.Debug("malformed frame", "err", err)
		sendError(sender, ErrCodeInvalidFrame, 0, "Invalid message format")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	switch msg.Type {
	case models.EventJoin:
		var payload models.RoomRef
		if !decodePayload(sender, msg, &payload) {
			return
		}
		h.handleJoin(ctx, sender, payload.RoomID)

	case models.EventLeave:
		var payload models.RoomRef
		if !decodePayload(sender, msg, &payload) {
			return
		}
		h.mu.Lock()
		h.leaveLocked(sender, payload.RoomID)
		h.mu.Unlock()

	case models.EventSendMessage:
		var payload models.SendMessagePayload
		if !decodePayload(sender, msg, &payload) {
			return
		}
		h.handleSendMessage(ctx, sender, payload)

	case models.EventMarkRead:
		var payload models.MarkReadPayload
		if !decodePayload(sender, msg, &payload) {
			return
		}
		h.handleMarkRead(sender, payload)

	default:
		sender.log.Debug("unknown frame type", "type", msg.Type)
		sendError(sender, ErrCodeUnknownType, 0, "Unknown message type")
	}
}

func (h *Hub) handleJoin(ctx context.Context, sender *Client, roomID int64) {
	room, err := h.roomStore.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrChatNotFound) {
			sendError(sender, ErrCodeRoomNotFound, roomID, "Chat not found")
			return
		}
		sender.log.Error("join: get room", "room_id", roomID, "err", err)
		sendError(sender, ErrCodeRoomNotFound, roomID, "Could not join chat")
		return
	}
	if !room.HasParticipant(sender.userID) {
		sendError(sender, ErrCodeNotParticipant, roomID, "You are not a participant of this chat")
		return
	}

	h.mu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][sender] = true
	sender.rooms[roomID] = true
	h.mu.Unlock()
	sender.log.Debug("joined room", "room_id", roomID)
}

func (h *Hub) leaveLocked(client *Client, roomID int64) {
	delete(client.rooms, roomID)
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// handleSendMessage persists a live-path send. A client_msg_id already written by
// the durable path is not broadcast a second time.
func (h *Hub) handleSendMessage(ctx context.Context, sender *Client, payload models.SendMessagePayload) {
	if !sender.rooms[payload.RoomID] {
		sendError(sender, ErrCodeNotJoined, payload.RoomID, "Join the chat before sending")
		return
	}
	if strings.TrimSpace(payload.Content) == "" {
		sendError(sender, ErrCodeInvalidFrame, payload.RoomID, "Message content cannot be empty")
		return
	}

	msg := &models.Message{
		RoomID:   payload.RoomID,
		SenderID: sender.userID,
		Content:  payload.Content,
		SentAt:   time.Now().UTC(),
	}
	if payload.ClientMsgID != "" {
		id := payload.ClientMsgID
		msg.ClientMsgID = &id
	}

	created, err := h.messageStore.CreateMessage(ctx, msg)
	if err != nil {
		sender.log.Error("send: store message", "room_id", payload.RoomID, "err", err)
		sendError(sender, ErrCodeSendFailed, payload.RoomID, "Failed to send message")
		return
	}
	h.metrics.ObservePersist("live", created)
	if created {
		h.BroadcastNewMessage(msg)
	}
}

// handleMarkRead relays a read watermark to the room. Persistence happens on the durable call.
func (h *Hub) handleMarkRead(sender *Client, payload models.MarkReadPayload) {
	if !sender.rooms[payload.RoomID] {
		sendError(sender, ErrCodeNotJoined, payload.RoomID, "Join the chat before marking it read")
		return
	}
	h.BroadcastMessagesRead(models.MessagesReadEvent{
		RoomID:    payload.RoomID,
		ReaderID:  sender.userID,
		Watermark: payload.Watermark,
	})
}

// BroadcastNewMessage sends a stored message to every connection joined to its room.
func (h *Hub) BroadcastNewMessage(msg *models.Message) {
	h.BroadcastToRoom(msg.RoomID, models.EventNewMessage, msg.ToEvent())
}

// BroadcastMessagesRead announces a read watermark to every connection joined to the room.
func (h *Hub) BroadcastMessagesRead(ev models.MessagesReadEvent) {
	h.BroadcastToRoom(ev.RoomID, models.EventMessagesRead, ev)
}

// BroadcastToRoom sends a frame to all connections joined to roomID.
func (h *Hub) BroadcastToRoom(roomID int64, msgType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		client.SendMessage(msgType, payload)
	}
}

func (h *Hub) roomMembers(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func decodePayload(sender *Client, msg inboundMessage, dst interface{}) bool {
	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		sender.log.Debug("malformed payload", "type", msg.Type, "err", err)
		sendError(sender, ErrCodeInvalidFrame, 0, "Invalid "+msg.Type+" payload")
		return false
	}
	return true
}

func sendError(c *Client, code string, roomID int64, message string) {
	c.SendMessage(models.EventError, models.ErrorEvent{Message: message, Code: code, RoomID: roomID})
}
