//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package chat

import (
	"context"
	"time"

	"nearbuy-chat/internal/models"
)

// RoomRepository is the room persistence the handlers need.
type RoomRepository interface {
	GetListing(ctx context.Context, listingID int64) (*models.Listing, error)
	GetOrCreateRoom(ctx context.Context, listing *models.Listing, buyerID int64) (*models.Room, bool, error)
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)
	GetUserRooms(ctx context.Context, userID int64) ([]models.RoomSummary, error)
}

// MessageRepository is the message persistence the handlers need.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) (bool, error)
	GetMessagesByRoomID(ctx context.Context, roomID int64) ([]*models.Message, error)
	MarkRoomRead(ctx context.Context, roomID, readerID int64, at time.Time) (int64, *time.Time, error)
}

// Broadcaster pushes durable writes to the live channel of a room.
type Broadcaster interface {
	BroadcastNewMessage(msg *models.Message)
	BroadcastMessagesRead(ev models.MessagesReadEvent)
}
