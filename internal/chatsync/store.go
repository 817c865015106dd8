package chatsync

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrDuplicateKey   = errors.New("chatsync: dedup key already present")
	ErrUnknownMessage = errors.New("chatsync: no message with that local id")
)

// MessageStore is the ordered, keyed message collection of one room. It is not
// safe for concurrent use; a Room mutates it from its event loop only.
//
// Messages are kept sorted by SentAt ascending, ties broken by LocalID. DedupKey and
// LocalID are both unique.
type MessageStore struct {
	items   []*Message
	byKey   map[string]*Message
	byLocal map[string]*Message
}

// identity is the part of a message that reconciliation rewrites.
type identity struct {
	serverID *int64
	sentAt   time.Time
	state    DeliveryState
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		byKey:   make(map[string]*Message),
		byLocal: make(map[string]*Message),
	}
}

func (s *MessageStore) Len() int {
	return len(s.items)
}

// Messages returns a copy of the store in display order.
func (s *MessageStore) Messages() []Message {
	out := make([]Message, len(s.items))
	for i, m := range s.items {
		out[i] = m.clone()
	}
	return out
}

func (s *MessageStore) ByKey(key string) (Message, bool) {
	m, ok := s.byKey[key]
	if !ok {
		return Message{}, false
	}
	return m.clone(), true
}

func (s *MessageStore) ByLocalID(localID string) (Message, bool) {
	m, ok := s.byLocal[localID]
	if !ok {
		return Message{}, false
	}
	return m.clone(), true
}

// Insert adds m, deriving its DedupKey from ServerID (or LocalID when unconfirmed).
func (s *MessageStore) Insert(m Message) error {
	if m.LocalID == "" {
		return errors.New("chatsync: message without local id")
	}
	m = m.clone()
	if m.ServerID != nil {
		m.DedupKey = ServerKey(*m.ServerID)
	} else {
		m.DedupKey = LocalKey(m.LocalID)
	}
	if _, ok := s.byKey[m.DedupKey]; ok {
		return ErrDuplicateKey
	}
	if _, ok := s.byLocal[m.LocalID]; ok {
		return ErrDuplicateKey
	}
	s.items = append(s.items, &m)
	s.byKey[m.DedupKey] = &m
	s.byLocal[m.LocalID] = &m
	s.sort()
	return nil
}

// Rekey rewrites the identity of the message with localID in place: its key becomes
// ServerKey(serverID), its state Confirmed and its SentAt the authoritative time. The
// entry is re-sorted, never removed and re-inserted.
func (s *MessageStore) Rekey(localID string, serverID int64, sentAt time.Time) error {
	m, ok := s.byLocal[localID]
	if !ok {
		return ErrUnknownMessage
	}
	if other, taken := s.byKey[ServerKey(serverID)]; taken && other != m {
		return ErrDuplicateKey
	}
	id := serverID
	s.setIdentity(m, identity{serverID: &id, sentAt: sentAt, state: Confirmed})
	s.sort()
	return nil
}

// swap exchanges the identities of two messages.
func (s *MessageStore) swap(aLocal, bLocal string) error {
	a, okA := s.byLocal[aLocal]
	b, okB := s.byLocal[bLocal]
	if !okA || !okB {
		return ErrUnknownMessage
	}
	idA := identity{serverID: a.ServerID, sentAt: a.SentAt, state: a.DeliveryState}
	idB := identity{serverID: b.ServerID, sentAt: b.SentAt, state: b.DeliveryState}
	delete(s.byKey, a.DedupKey)
	delete(s.byKey, b.DedupKey)
	s.setIdentity(a, idB)
	s.setIdentity(b, idA)
	s.sort()
	return nil
}

func (s *MessageStore) setIdentity(m *Message, id identity) {
	if cur, ok := s.byKey[m.DedupKey]; ok && cur == m {
		delete(s.byKey, m.DedupKey)
	}
	m.ServerID = id.serverID
	m.SentAt = id.sentAt
	m.DeliveryState = id.state
	if id.serverID != nil {
		m.DedupKey = ServerKey(*id.serverID)
	} else {
		m.DedupKey = LocalKey(m.LocalID)
	}
	s.byKey[m.DedupKey] = m
}

// Remove drops the message with localID. It reports whether anything was removed.
func (s *MessageStore) Remove(localID string) bool {
	m, ok := s.byLocal[localID]
	if !ok {
		return false
	}
	delete(s.byLocal, localID)
	delete(s.byKey, m.DedupKey)
	s.items = slices.DeleteFunc(s.items, func(it *Message) bool { return it == m })
	return true
}

// OldestPending returns the earliest Pending message from senderID whose content is
// content, skipping exclude.
func (s *MessageStore) OldestPending(senderID int64, content, exclude string) (Message, bool) {
	for _, m := range s.items {
		if m.DeliveryState != Pending || m.SenderID != senderID || m.LocalID == exclude {
			continue
		}
		if m.Content == content {
			return m.clone(), true
		}
	}
	return Message{}, false
}

// LatestNotFrom returns the newest SentAt among confirmed messages not sent by
// senderID.
func (s *MessageStore) LatestNotFrom(senderID int64) (time.Time, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		m := s.items[i]
		if m.SenderID != senderID && m.DeliveryState == Confirmed {
			return m.SentAt, true
		}
	}
	return time.Time{}, false
}

// MarkReadUpTo stamps ReadAt = watermark on unread messages from senderID sent at or
// before watermark and returns how many changed.
func (s *MessageStore) MarkReadUpTo(senderID int64, watermark time.Time) int {
	n := 0
	for _, m := range s.items {
		if m.SenderID != senderID || m.ReadAt != nil || m.SentAt.After(watermark) {
			continue
		}
		if m.DeliveryState != Confirmed {
			continue
		}
		at := watermark
		m.ReadAt = &at
		n++
	}
	return n
}

func (s *MessageStore) setReadAt(localID string, at time.Time) {
	if m, ok := s.byLocal[localID]; ok {
		m.ReadAt = &at
	}
}

func (s *MessageStore) sort() {
	slices.SortStableFunc(s.items, func(a, b *Message) int {
		if c := a.SentAt.Compare(b.SentAt); c != 0 {
			return c
		}
		switch {
		case a.LocalID < b.LocalID:
			return -1
		case a.LocalID > b.LocalID:
			return 1
		}
		return 0
	})
}
