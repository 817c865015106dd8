//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package chatsync

import (
	"context"
	"time"

	"nearbuy-chat/internal/models"
)

// DurableAPI is the request/response side of the backend.
type DurableAPI interface {
	FetchHistory(ctx context.Context, roomID int64) (*models.HistoryResponse, error)
	CreateMessage(ctx context.Context, roomID int64, content, clientMsgID string) (*models.CreateMessageResponse, error)
	MarkRead(ctx context.Context, roomID int64) (*models.MarkReadResponse, error)
}

// LiveChannel is the push subscription of one room.
type LiveChannel interface {
	Join(ctx context.Context) error
	Leave() error
	Send(clientMsgID, content string) error
	MarkRead(watermark time.Time) error

	OnArrival(fn func(Arrival))
	OnReadReceipt(fn func(ReadReceipt))
	OnStateChange(fn func(connected bool))
}
