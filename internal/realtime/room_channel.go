package realtime

import (
	"context"
	"sync"
	"time"

	"nearbuy-chat/internal/chatsync"
	"nearbuy-chat/internal/models"
)

// RoomChannel is the subscription of one room on a shared Conn.
type RoomChannel struct {
	conn   *Conn
	roomID int64

	mu        sync.Mutex
	joined    bool
	degraded  bool
	seen      map[int64]struct{}
	onArrival func(chatsync.Arrival)
	onReceipt func(chatsync.ReadReceipt)
	onState   func(bool)
}

var _ chatsync.LiveChannel = (*RoomChannel)(nil)

// Join subscribes to the room. Joining twice is a no-op. When the connection is down the
// room stays registered, is reported degraded, and is joined on reconnect.
func (rc *RoomChannel) Join(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rc.mu.Lock()
	if rc.joined {
		rc.mu.Unlock()
		return nil
	}
	rc.joined = true
	rc.mu.Unlock()

	return rc.conn.join(rc)
}

// Leave unsubscribes and drops the handlers.
func (rc *RoomChannel) Leave() error {
	rc.mu.Lock()
	if !rc.joined {
		rc.mu.Unlock()
		return nil
	}
	rc.joined = false
	rc.onArrival, rc.onReceipt, rc.onState = nil, nil, nil
	rc.mu.Unlock()
	return rc.conn.leave(rc)
}

func (rc *RoomChannel) Send(clientMsgID, content string) error {
	return rc.conn.enqueue(models.EventSendMessage, models.SendMessagePayload{
		RoomID:      rc.roomID,
		Content:     content,
		ClientMsgID: clientMsgID,
	})
}

func (rc *RoomChannel) MarkRead(watermark time.Time) error {
	return rc.conn.enqueue(models.EventMarkRead, models.MarkReadPayload{
		RoomID:    rc.roomID,
		Watermark: models.JSONTime(watermark),
	})
}

func (rc *RoomChannel) OnArrival(fn func(chatsync.Arrival)) {
	rc.mu.Lock()
	rc.onArrival = fn
	rc.mu.Unlock()
}

func (rc *RoomChannel) OnReadReceipt(fn func(chatsync.ReadReceipt)) {
	rc.mu.Lock()
	rc.onReceipt = fn
	rc.mu.Unlock()
}

func (rc *RoomChannel) OnStateChange(fn func(connected bool)) {
	rc.mu.Lock()
	rc.onState = fn
	rc.mu.Unlock()
}

// Degraded reports whether the live path is currently down for this room.
func (rc *RoomChannel) Degraded() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.degraded
}

func (rc *RoomChannel) RoomID() int64 {
	return rc.roomID
}

// deliverArrival hands each server message to the handler once.
func (rc *RoomChannel) deliverArrival(ev models.NewMessageEvent) {
	rc.mu.Lock()
	if !rc.joined {
		rc.mu.Unlock()
		return
	}
	if _, dup := rc.seen[ev.ID]; dup {
		rc.mu.Unlock()
		return
	}
	rc.seen[ev.ID] = struct{}{}
	fn := rc.onArrival
	rc.mu.Unlock()

	if fn != nil {
		fn(chatsync.Arrival{
			RoomID:      ev.RoomID,
			ServerID:    ev.ID,
			SenderID:    ev.SenderID,
			Content:     ev.Content,
			SentAt:      ev.SentAt.Time(),
			ClientMsgID: ev.ClientMsgID,
		})
	}
}

func (rc *RoomChannel) deliverReceipt(ev models.MessagesReadEvent, fromOther bool) {
	rc.mu.Lock()
	fn := rc.onReceipt
	joined := rc.joined
	rc.mu.Unlock()

	if joined && fn != nil {
		fn(chatsync.ReadReceipt{RoomID: ev.RoomID, FromOther: fromOther, Watermark: ev.Watermark.Time()})
	}
}

// markDegraded is called by Conn with its lock held, so a session that starts
// afterwards always sees the flag and reports the recovery.
func (rc *RoomChannel) markDegraded() {
	rc.mu.Lock()
	rc.degraded = true
	rc.mu.Unlock()
}

func (rc *RoomChannel) setConnected(connected bool) {
	rc.mu.Lock()
	changed := rc.degraded == connected
	rc.degraded = !connected
	fn := rc.onState
	rc.mu.Unlock()

	if changed && fn != nil {
		fn(connected)
	}
}
