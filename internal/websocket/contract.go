package websocket

import (
	"context"

	"nearbuy-chat/internal/models"
)

// RoomLookup resolves rooms for join checks.
type RoomLookup interface {
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)
}

// MessageWriter persists live-path sends.
type MessageWriter interface {
	CreateMessage(ctx context.Context, message *models.Message) (bool, error)
}

