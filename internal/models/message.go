package models

import (
	"time"
)

// Message is a chat message as persisted by the backend.
type Message struct {
	ID          int64      `json:"id" db:"id"`
	RoomID      int64      `json:"room_id" db:"room_id"`
	SenderID    int64      `json:"sender_id" db:"sender_id"`
	ClientMsgID *string    `json:"client_msg_id,omitempty" db:"client_msg_id"`
	Content     string     `json:"content" db:"content"`
	SentAt      time.Time  `json:"sent_at" db:"sent_at"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
}

// HistoryMessage is one row of a room's history as returned by fetchHistory.
type HistoryMessage struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	SenderID      int64     `json:"sender_id"`
	SentAt        JSONTime  `json:"sent_at"`
	ReadAt        *JSONTime `json:"read_at,omitempty"`
	IsRead        bool      `json:"is_read"`
	IsCurrentUser bool      `json:"is_current_user"`
	ClientMsgID   string    `json:"client_msg_id,omitempty"`
}

// HistoryResponse is the fetchHistory payload, messages ordered oldest first.
type HistoryResponse struct {
	Listing  ListingInfo      `json:"listing"`
	Messages []HistoryMessage `json:"messages"`
}

// CreateMessageRequest is the durable "create message" body.
type CreateMessageRequest struct {
	Content     string `json:"content" binding:"required,max=4096"`
	ClientMsgID string `json:"client_msg_id" binding:"omitempty,max=64"`
}

// CreateMessageResponse carries the authoritative identity of a created message.
type CreateMessageResponse struct {
	Message   string   `json:"message"`
	MessageID int64    `json:"message_id"`
	SentAt    JSONTime `json:"sent_at"`
}

// MarkReadResponse reports how many messages a mark-read call touched.
type MarkReadResponse struct {
	Success    bool      `json:"success"`
	MarkedRead int64     `json:"marked_read"`
	Watermark  *JSONTime `json:"watermark,omitempty"`
}

// NewMessageEvent is pushed to every live connection joined to the room.
type NewMessageEvent struct {
	RoomID      int64    `json:"room_id"`
	ID          int64    `json:"id"`
	SenderID    int64    `json:"sender_id"`
	Content     string   `json:"content"`
	SentAt      JSONTime `json:"sent_at"`
	ClientMsgID string   `json:"client_msg_id,omitempty"`
}

// MessagesReadEvent announces that ReaderID has read the room up to Watermark.
type MessagesReadEvent struct {
	RoomID    int64    `json:"room_id"`
	ReaderID  int64    `json:"reader_id"`
	Watermark JSONTime `json:"watermark"`
	Count     int64    `json:"count,omitempty"`
}

// ToEvent converts a stored message into its live-channel form.
func (m *Message) ToEvent() NewMessageEvent {
	ev := NewMessageEvent{
		RoomID:   m.RoomID,
		ID:       m.ID,
		SenderID: m.SenderID,
		Content:  m.Content,
		SentAt:   JSONTime(m.SentAt),
	}
	if m.ClientMsgID != nil {
		ev.ClientMsgID = *m.ClientMsgID
	}
	return ev
}
