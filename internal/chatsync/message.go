package chatsync

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DeliveryState is where a message stands between the optimistic insert and
// server confirmation.
type DeliveryState int

const (
	Pending DeliveryState = iota + 1
	Confirmed
	Failed
)

func (s DeliveryState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Message is a message as the presentation layer sees it.
type Message struct {
	ServerID      *int64
	LocalID       string
	Content       string
	SenderID      int64
	SentAt        time.Time
	ReadAt        *time.Time
	DeliveryState DeliveryState
	// DedupKey is "s:<serverId>" once confirmed and "l:<localId>" before. It is the
	// stable list key for rendering.
	DedupKey string
}

// IsOwn reports whether self sent the message.
func (m Message) IsOwn(self int64) bool {
	return m.SenderID == self
}

func (m Message) clone() Message {
	if m.ServerID != nil {
		id := *m.ServerID
		m.ServerID = &id
	}
	if m.ReadAt != nil {
		at := *m.ReadAt
		m.ReadAt = &at
	}
	return m
}

// ServerKey is the dedup key of a server-confirmed message.
func ServerKey(serverID int64) string {
	return "s:" + strconv.FormatInt(serverID, 10)
}

// LocalKey is the dedup key of a not yet confirmed message.
func LocalKey(localID string) string {
	return "l:" + localID
}

// NewLocalID returns a process-unique, time-ordered identifier.
func NewLocalID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Arrival is a server-confirmed message delivered by history or by the live channel.
type Arrival struct {
	RoomID      int64
	ServerID    int64
	SenderID    int64
	Content     string
	SentAt      time.Time
	ReadAt      *time.Time
	ClientMsgID string
}

// ReadReceipt is a read watermark announced on the live channel.
type ReadReceipt struct {
	RoomID    int64
	FromOther bool
	Watermark time.Time
}
