package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nearbuy-chat/internal/middleware"
	"nearbuy-chat/internal/models"
	"nearbuy-chat/internal/obs"
	"nearbuy-chat/internal/store"

	"github.com/gin-gonic/gin"
)

// RestHandler handles REST API requests related to rooms and messages.
type RestHandler struct {
	rooms    RoomRepository
	messages MessageRepository
	hub      Broadcaster
	metrics  *obs.Metrics
	now      func() time.Time
}

// NewRestHandler creates a new RestHandler. hub and metrics may be nil.
func NewRestHandler(rooms RoomRepository, messages MessageRepository, hub Broadcaster, metrics *obs.Metrics) *RestHandler {
	return &RestHandler{
		rooms:    rooms,
		messages: messages,
		hub:      hub,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// InitiateChat finds or creates the caller's room for a listing.
// POST /chats/initiate
func (h *RestHandler) InitiateChat(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req models.InitiateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	listing, err := h.rooms.GetListing(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		slog.Error("initiate: get listing", "listing_id", req.ListingID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start chat"})
		return
	}
	if listing.SellerID == userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot start a chat on your own listing"})
		return
	}

	room, created, err := h.rooms.GetOrCreateRoom(ctx, listing, userID)
	if err != nil {
		slog.Error("initiate: get or create room", "listing_id", listing.ID, "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start chat"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		slog.Info("room created", "room_id", room.ID, "listing_id", listing.ID, "buyer_id", userID)
	}
	c.JSON(status, models.InitiateRoomResponse{
		RoomID:       room.ID,
		ListingID:    listing.ID,
		SellerID:     listing.SellerID,
		ListingTitle: listing.Title,
		ListingPrice: listing.Price,
		ListingImage: listing.ImageURL,
	})
}

// GetChats lists all conversations of the authenticated user.
// GET /chats
func (h *RestHandler) GetChats(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	chats, err := h.rooms.GetUserRooms(c.Request.Context(), userID)
	if err != nil {
		slog.Error("chats: get user rooms", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chats"})
		return
	}
	if chats == nil {
		chats = make([]models.RoomSummary, 0)
	}

	c.JSON(http.StatusOK, models.RoomsResponse{Chats: chats})
}

// GetMessages returns the listing context and full history of a room.
// GET /chats/:room_id/messages
func (h *RestHandler) GetMessages(c *gin.Context) {
	userID, room, ok := h.authorizeRoom(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	listing, err := h.rooms.GetListing(ctx, room.ListingID)
	if err != nil {
		slog.Error("messages: get listing", "room_id", room.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	messages, err := h.messages.GetMessagesByRoomID(ctx, room.ID)
	if err != nil {
		slog.Error("messages: list", "room_id", room.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	history := make([]models.HistoryMessage, 0, len(messages))
	for _, m := range messages {
		hm := models.HistoryMessage{
			ID:            m.ID,
			Content:       m.Content,
			SenderID:      m.SenderID,
			SentAt:        models.JSONTime(m.SentAt),
			ReadAt:        models.NewJSONTimePtr(m.ReadAt),
			IsRead:        m.ReadAt != nil,
			IsCurrentUser: m.SenderID == userID,
		}
		if m.ClientMsgID != nil {
			hm.ClientMsgID = *m.ClientMsgID
		}
		history = append(history, hm)
	}

	c.JSON(http.StatusOK, models.HistoryResponse{
		Listing: models.ListingInfo{
			ID:       listing.ID,
			Title:    listing.Title,
			Price:    listing.Price,
			ImageURL: listing.ImageURL,
		},
		Messages: history,
	})
}

// PostMessage persists a message and pushes it to the room's live channel.
// Repeating a client_msg_id returns the stored message without a second write.
// POST /chats/:room_id/messages
func (h *RestHandler) PostMessage(c *gin.Context) {
	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content cannot be empty"})
		return
	}

	userID, room, ok := h.authorizeRoom(c)
	if !ok {
		return
	}

	msg := &models.Message{
		RoomID:   room.ID,
		SenderID: userID,
		Content:  req.Content,
		SentAt:   h.now(),
	}
	if req.ClientMsgID != "" {
		id := req.ClientMsgID
		msg.ClientMsgID = &id
	}

	created, err := h.messages.CreateMessage(c.Request.Context(), msg)
	if err != nil {
		slog.Error("post message: store", "room_id", room.ID, "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	h.metrics.ObservePersist("durable", created)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		if h.hub != nil {
			h.hub.BroadcastNewMessage(msg)
		}
	}
	c.JSON(status, models.CreateMessageResponse{
		Message:   "Message sent",
		MessageID: msg.ID,
		SentAt:    models.JSONTime(msg.SentAt),
	})
}

// MarkRead stamps every unread message from the other participant as read.
// POST /chats/:room_id/messages/read
func (h *RestHandler) MarkRead(c *gin.Context) {
	userID, room, ok := h.authorizeRoom(c)
	if !ok {
		return
	}

	count, watermark, err := h.messages.MarkRoomRead(c.Request.Context(), room.ID, userID, h.now())
	if err != nil {
		slog.Error("mark read", "room_id", room.ID, "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}
	h.metrics.ObserveReadMarks(count)

	if watermark != nil && h.hub != nil {
		h.hub.BroadcastMessagesRead(models.MessagesReadEvent{
			RoomID:    room.ID,
			ReaderID:  userID,
			Watermark: models.JSONTime(*watermark),
			Count:     count,
		})
	}

	c.JSON(http.StatusOK, models.MarkReadResponse{
		Success:    true,
		MarkedRead: count,
		Watermark:  models.NewJSONTimePtr(watermark),
	})
}

func (h *RestHandler) userID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		slog.Error("user id missing from context", "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user session"})
		return 0, false
	}
	return userID, true
}

// authorizeRoom loads the :room_id room and checks the caller takes part in it.
// It writes the error response itself.
func (h *RestHandler) authorizeRoom(c *gin.Context) (int64, *models.Room, bool) {
	userID, ok := h.userID(c)
	if !ok {
		return 0, nil, false
	}

	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil || roomID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return 0, nil, false
	}

	room, err := h.rooms.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, store.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return 0, nil, false
		}
		slog.Error("get room", "room_id", roomID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return 0, nil, false
	}
	if !room.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this chat"})
		return 0, nil, false
	}
	return userID, room, true
}
