package chatsync

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"nearbuy-chat/internal/models"
)

// Summary is one inbox row as the aggregator sees it.
type Summary struct {
	RoomID        int64
	ListingID     int64
	ListingTitle  string
	Status        models.ListingStatus
	OtherID       int64
	OtherName     string
	LastMessage   string
	LastMessageAt *time.Time
	CompletedAt   *time.Time
	UnreadCount   int
}

// SummaryFromModel converts a fetchRooms row for the user self.
func SummaryFromModel(row models.RoomSummary, self int64) Summary {
	s := Summary{
		RoomID:        row.ID,
		ListingID:     row.ListingID,
		ListingTitle:  row.ListingTitle,
		Status:        row.Status,
		OtherID:       row.SellerID,
		OtherName:     row.SellerName,
		LastMessageAt: row.LastMessageTime.TimePtr(),
		CompletedAt:   row.CompletedAt.TimePtr(),
		UnreadCount:   row.UnreadCount,
	}
	if row.SellerID == self {
		s.OtherID = row.BuyerID
		s.OtherName = row.BuyerName
	}
	if row.LastMessage != nil {
		s.LastMessage = *row.LastMessage
	}
	return s
}

// sortTime is the time the row orders by: completion for sold rooms, the last message
// for everything else.
func (s Summary) sortTime() *time.Time {
	if s.Status == models.ListingSold {
		return s.CompletedAt
	}
	return s.LastMessageAt
}

func statusRank(status models.ListingStatus) int {
	if status == models.ListingSold {
		return 1
	}
	return 0
}

// CompareSummaries orders inbox rows: active before sold, active rooms by last message
// time newest first, sold rooms by completion time newest first. Rows without a time
// go last in their group and room id breaks remaining ties.
func CompareSummaries(a, b Summary) int {
	if c := cmp.Compare(statusRank(a.Status), statusRank(b.Status)); c != 0 {
		return c
	}
	at, bt := a.sortTime(), b.sortTime()
	switch {
	case at == nil && bt != nil:
		return 1
	case at != nil && bt == nil:
		return -1
	case at != nil && bt != nil:
		if c := bt.Compare(*at); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.RoomID, b.RoomID)
}

// SortSummaries sorts rows in place with CompareSummaries.
func SortSummaries(rows []Summary) {
	slices.SortFunc(rows, CompareSummaries)
}

// Inbox holds the summary rows of every room of the user. Rooms report their messages
// to it; it never sees a full store. Safe for concurrent use.
type Inbox struct {
	mu    sync.Mutex
	self  int64
	rooms map[int64]Summary
}

func NewInbox(self int64) *Inbox {
	return &Inbox{self: self, rooms: make(map[int64]Summary)}
}

// Replace swaps the whole inbox for a fresh fetchRooms result.
func (in *Inbox) Replace(rows []Summary) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.rooms = make(map[int64]Summary, len(rows))
	for _, row := range rows {
		in.rooms[row.RoomID] = row
	}
}

// ObserveMessage folds a confirmed message into its room row. Messages from the other
// participant count as unread unless the room is focused. It reports whether the row
// changed; unknown rooms and messages older than the current last message are skipped.
func (in *Inbox) ObserveMessage(roomID int64, m Message, focused bool) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	row, ok := in.rooms[roomID]
	if !ok {
		return false
	}
	if row.LastMessageAt != nil && m.SentAt.Before(*row.LastMessageAt) {
		return false
	}
	at := m.SentAt
	row.LastMessage = m.Content
	row.LastMessageAt = &at
	if !m.IsOwn(in.self) && !focused {
		row.UnreadCount++
	}
	in.rooms[roomID] = row
	return true
}

// MarkRoomRead clears the unread count of roomID.
func (in *Inbox) MarkRoomRead(roomID int64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if row, ok := in.rooms[roomID]; ok {
		row.UnreadCount = 0
		in.rooms[roomID] = row
	}
}

// Get returns the row of roomID.
func (in *Inbox) Get(roomID int64) (Summary, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	row, ok := in.rooms[roomID]
	return row, ok
}

// Sorted returns every row in inbox order.
func (in *Inbox) Sorted() []Summary {
	in.mu.Lock()
	rows := make([]Summary, 0, len(in.rooms))
	for _, row := range in.rooms {
		rows = append(rows, row)
	}
	in.mu.Unlock()
	SortSummaries(rows)
	return rows
}
