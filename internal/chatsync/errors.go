package chatsync

import (
	"errors"
	"fmt"
)

// ErrorCode classifies room failures. None of them is fatal; re-entering the room
// recovers from all of them.
type ErrorCode string

const (
	CodeHistoryFetchFailed ErrorCode = "HISTORY_FETCH_FAILED"
	CodeSendFailed         ErrorCode = "SEND_FAILED"
	CodeChannelDisconnect  ErrorCode = "CHANNEL_DISCONNECTED"
	CodeReadMarkFailed     ErrorCode = "READ_MARK_FAILED"
)

var (
	ErrHistoryFetchFailed  = &RoomError{Code: CodeHistoryFetchFailed}
	ErrSendFailed          = &RoomError{Code: CodeSendFailed}
	ErrChannelDisconnected = &RoomError{Code: CodeChannelDisconnect}
	ErrReadMarkFailed      = &RoomError{Code: CodeReadMarkFailed}

	ErrRoomClosed   = errors.New("chatsync: room closed")
	ErrEmptyContent = errors.New("chatsync: empty message content")
)

// RoomError is a failure scoped to one room.
type RoomError struct {
	Code    ErrorCode
	RoomID  int64
	LocalID string
	Err     error
}

func (e *RoomError) Error() string {
	msg := fmt.Sprintf("room %d: %s", e.RoomID, e.Code)
	if e.LocalID != "" {
		msg += " (message " + e.LocalID + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RoomError) Unwrap() error {
	return e.Err
}

// Is matches any RoomError with the same code, so errors.Is(err, ErrSendFailed) works.
func (e *RoomError) Is(target error) bool {
	t, ok := target.(*RoomError)
	return ok && t.Code == e.Code
}

func newRoomError(code ErrorCode, roomID int64, err error) *RoomError {
	return &RoomError{Code: code, RoomID: roomID, Err: err}
}
