package models

// Live channel frame types.
const (
	EventJoin         = "join"
	EventLeave        = "leave"
	EventSendMessage  = "send_message"
	EventMarkRead     = "mark_read"
	EventNewMessage   = "new_message"
	EventMessagesRead = "messages_read"
	EventError        = "error"
)

// RoomRef is the payload of join and leave.
type RoomRef struct {
	RoomID int64 `json:"room_id"`
}

// SendMessagePayload is the live-path send. ClientMsgID makes the write idempotent with
// the durable create for the same message.
type SendMessagePayload struct {
	RoomID      int64  `json:"room_id"`
	Content     string `json:"content"`
	ClientMsgID string `json:"client_msg_id,omitempty"`
}

// MarkReadPayload announces the sender's new read watermark for a room.
type MarkReadPayload struct {
	RoomID    int64    `json:"room_id"`
	Watermark JSONTime `json:"watermark"`
}

// ErrorEvent reports a rejected frame.
type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	RoomID  int64  `json:"room_id,omitempty"`
}
