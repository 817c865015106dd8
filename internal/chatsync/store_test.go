package chatsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func keys(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.DedupKey
	}
	return out
}

func serverID(id int64) *int64 {
	return &id
}

func TestMessageStore_OrdersBySentAtThenLocalID(t *testing.T) {
	s := NewMessageStore()
	require.NoError(t, s.Insert(Message{LocalID: "b", ServerID: serverID(2), SentAt: at(20), DeliveryState: Confirmed}))
	require.NoError(t, s.Insert(Message{LocalID: "c", SentAt: at(10), DeliveryState: Pending}))
	require.NoError(t, s.Insert(Message{LocalID: "a", ServerID: serverID(1), SentAt: at(20), DeliveryState: Confirmed}))

	assert.Equal(t, []string{"l:c", "s:1", "s:2"}, keys(s.Messages()))
	assert.Equal(t, 3, s.Len())
}

func TestMessageStore_RejectsDuplicates(t *testing.T) {
	s := NewMessageStore()
	require.NoError(t, s.Insert(Message{LocalID: "a", ServerID: serverID(7), SentAt: at(1)}))

	assert.ErrorIs(t, s.Insert(Message{LocalID: "b", ServerID: serverID(7), SentAt: at(2)}), ErrDuplicateKey)
	assert.ErrorIs(t, s.Insert(Message{LocalID: "a", SentAt: at(2)}), ErrDuplicateKey)
	assert.Error(t, s.Insert(Message{SentAt: at(2)}))
	assert.Equal(t, 1, s.Len())
}

func TestMessageStore_RekeyKeepsLocalIDAndResorts(t *testing.T) {
	s := NewMessageStore()
	require.NoError(t, s.Insert(Message{LocalID: "mine", SentAt: at(50), DeliveryState: Pending}))
	require.NoError(t, s.Insert(Message{LocalID: "theirs", ServerID: serverID(3), SentAt: at(40), DeliveryState: Confirmed}))

	require.NoError(t, s.Rekey("mine", 9, at(30)))

	msgs := s.Messages()
	assert.Equal(t, []string{"s:9", "s:3"}, keys(msgs))
	assert.Equal(t, "mine", msgs[0].LocalID)
	assert.Equal(t, Confirmed, msgs[0].DeliveryState)
	_, ok := s.ByKey("l:mine")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Rekey("mine", 3, at(30)), ErrDuplicateKey)
	assert.ErrorIs(t, s.Rekey("nobody", 11, at(30)), ErrUnknownMessage)
}

func TestMessageStore_MessagesIsACopy(t *testing.T) {
	s := NewMessageStore()
	require.NoError(t, s.Insert(Message{LocalID: "a", ServerID: serverID(1), SentAt: at(1)}))

	msgs := s.Messages()
	*msgs[0].ServerID = 99
	msgs[0].Content = "changed"

	got, ok := s.ByLocalID("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), *got.ServerID)
	assert.Empty(t, got.Content)
}

func TestMessageStore_Remove(t *testing.T) {
	s := NewMessageStore()
	require.NoError(t, s.Insert(Message{LocalID: "a", SentAt: at(1)}))

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Zero(t, s.Len())
	_, ok := s.ByKey(LocalKey("a"))
	assert.False(t, ok)
}

func TestMessageStore_MarkReadUpTo(t *testing.T) {
	s := NewMessageStore()
	require.NoError(t, s.Insert(Message{LocalID: "a", ServerID: serverID(1), SenderID: 1, SentAt: at(10), DeliveryState: Confirmed}))
	require.NoError(t, s.Insert(Message{LocalID: "b", ServerID: serverID(2), SenderID: 2, SentAt: at(11), DeliveryState: Confirmed}))
	require.NoError(t, s.Insert(Message{LocalID: "c", ServerID: serverID(3), SenderID: 1, SentAt: at(12), DeliveryState: Confirmed}))
	require.NoError(t, s.Insert(Message{LocalID: "d", SenderID: 1, SentAt: at(11), DeliveryState: Pending}))

	assert.Equal(t, 1, s.MarkReadUpTo(1, at(11)))
	assert.Equal(t, 0, s.MarkReadUpTo(1, at(11)))

	a, _ := s.ByLocalID("a")
	require.NotNil(t, a.ReadAt)
	assert.Equal(t, at(11), *a.ReadAt)
	for _, id := range []string{"b", "c", "d"} {
		m, _ := s.ByLocalID(id)
		assert.Nil(t, m.ReadAt, id)
	}
}

func TestMessageStore_LatestNotFrom(t *testing.T) {
	s := NewMessageStore()
	_, ok := s.LatestNotFrom(1)
	assert.False(t, ok)

	require.NoError(t, s.Insert(Message{LocalID: "a", ServerID: serverID(1), SenderID: 2, SentAt: at(10), DeliveryState: Confirmed}))
	require.NoError(t, s.Insert(Message{LocalID: "b", ServerID: serverID(2), SenderID: 1, SentAt: at(20), DeliveryState: Confirmed}))

	latest, ok := s.LatestNotFrom(1)
	require.True(t, ok)
	assert.Equal(t, at(10), latest)
}
