package websocket

import (
	"encoding/json"
)

// Error codes carried by error frames.
const (
	ErrCodeInvalidFrame   = "INVALID_FRAME"
	ErrCodeUnknownType    = "UNKNOWN_TYPE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeNotParticipant = "NOT_PARTICIPANT"
	ErrCodeNotJoined      = "NOT_JOINED"
	ErrCodeSendFailed     = "SEND_FAILED"
)

// WebSocketMessage is the envelope of every outbound frame.
// The Type field determines how Payload is interpreted.
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// inboundMessage is a client frame with its payload left undecoded until the type is known.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HubMessage holds raw JSON from a client awaiting processing.
type HubMessage struct {
	client  *Client
	rawJSON []byte
}
