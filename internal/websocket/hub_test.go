package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nearbuy-chat/internal/config"
	"nearbuy-chat/internal/models"
	"nearbuy-chat/internal/obs"
	"nearbuy-chat/internal/store"
	"nearbuy-chat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	seller   int64 = 1
	buyer    int64 = 2
	outsider int64 = 3
	room     int64 = 40
)

type fakeRooms struct{}

func (fakeRooms) GetRoom(_ context.Context, roomID int64) (*models.Room, error) {
	if roomID != room {
		return nil, store.ErrChatNotFound
	}
	return &models.Room{ID: room, ListingID: 8, SellerID: seller, BuyerID: buyer}, nil
}

type fakeMessages struct {
	mu     sync.Mutex
	nextID int64
	byKey  map[string]*models.Message
}

func (f *fakeMessages) CreateMessage(_ context.Context, m *models.Message) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ClientMsgID != nil {
		if existing, ok := f.byKey[*m.ClientMsgID]; ok {
			*m = *existing
			return false, nil
		}
	}
	f.nextID++
	m.ID = f.nextID
	if m.ClientMsgID != nil {
		cp := *m
		f.byKey[*m.ClientMsgID] = &cp
	}
	return true, nil
}

type hubHarness struct {
	hub     *Hub
	metrics *obs.Metrics
	url     string
}

func newHubHarness(t *testing.T) *hubHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := config.Cfg
	config.Cfg = &config.AppConfig{JWTSecret: "test-secret", TokenMaxAge: time.Hour}
	t.Cleanup(func() { config.Cfg = prev })

	metrics := obs.NewMetrics(prometheus.NewRegistry())
	hub := NewHub(fakeRooms{}, &fakeMessages{byKey: map[string]*models.Message{}}, metrics, obs.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()

	r := gin.New()
	r.GET("/ws", NewWSHandler(hub, []string{"*"}).HandleWebSocketConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return &hubHarness{hub: hub, metrics: metrics, url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"}
}

func (h *hubHarness) dial(t *testing.T, userID int64) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateJWT(userID)
	require.NoError(t, err)
	ws, _, err := websocket.DefaultDialer.Dial(h.url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(WebSocketMessage{Type: msgType, Payload: payload}))
}

func read(t *testing.T, ws *websocket.Conn, dst interface{}) string {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame inboundMessage
	require.NoError(t, ws.ReadJSON(&frame))
	if dst != nil {
		require.NoError(t, json.Unmarshal(frame.Payload, dst))
	}
	return frame.Type
}

func (h *hubHarness) joinBoth(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	s := h.dial(t, seller)
	b := h.dial(t, buyer)
	send(t, s, models.EventJoin, models.RoomRef{RoomID: room})
	send(t, b, models.EventJoin, models.RoomRef{RoomID: room})
	require.Eventually(t, func() bool { return h.hub.roomMembers(room) == 2 }, 2*time.Second, 10*time.Millisecond)
	return s, b
}

func TestHub_SendMessageReachesBothParticipants(t *testing.T) {
	h := newHubHarness(t)
	s, b := h.joinBoth(t)

	send(t, b, models.EventSendMessage, models.SendMessagePayload{RoomID: room, Content: "still available?", ClientMsgID: "c-1"})

	for _, ws := range []*websocket.Conn{s, b} {
		var ev models.NewMessageEvent
		require.Equal(t, models.EventNewMessage, read(t, ws, &ev))
		assert.Equal(t, room, ev.RoomID)
		assert.Equal(t, buyer, ev.SenderID)
		assert.Equal(t, "c-1", ev.ClientMsgID)
		assert.Equal(t, int64(1), ev.ID)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.MessagesPersisted.WithLabelValues("live")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.LiveConnections))
}

func TestHub_DuplicateClientIDIsNotRebroadcast(t *testing.T) {
	h := newHubHarness(t)
	s, b := h.joinBoth(t)

	send(t, b, models.EventSendMessage, models.SendMessagePayload{RoomID: room, Content: "hi", ClientMsgID: "c-1"})
	send(t, b, models.EventSendMessage, models.SendMessagePayload{RoomID: room, Content: "hi", ClientMsgID: "c-1"})
	send(t, b, models.EventSendMessage, models.SendMessagePayload{RoomID: room, Content: "there", ClientMsgID: "c-2"})

	var first, second models.NewMessageEvent
	require.Equal(t, models.EventNewMessage, read(t, s, &first))
	require.Equal(t, models.EventNewMessage, read(t, s, &second))
	assert.Equal(t, "hi", first.Content)
	assert.Equal(t, "there", second.Content)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.DuplicateSends.WithLabelValues("live")))
}

func TestHub_OutsiderCannotJoin(t *testing.T) {
	h := newHubHarness(t)
	o := h.dial(t, outsider)

	send(t, o, models.EventJoin, models.RoomRef{RoomID: room})
	var ev models.ErrorEvent
	require.Equal(t, models.EventError, read(t, o, &ev))
	assert.Equal(t, ErrCodeNotParticipant, ev.Code)

	send(t, o, models.EventJoin, models.RoomRef{RoomID: 999})
	require.Equal(t, models.EventError, read(t, o, &ev))
	assert.Equal(t, ErrCodeRoomNotFound, ev.Code)
}

func TestHub_SendRequiresJoin(t *testing.T) {
	h := newHubHarness(t)
	b := h.dial(t, buyer)

	send(t, b, models.EventSendMessage, models.SendMessagePayload{RoomID: room, Content: "hi"})
	var ev models.ErrorEvent
	require.Equal(t, models.EventError, read(t, b, &ev))
	assert.Equal(t, ErrCodeNotJoined, ev.Code)
}

func TestHub_MarkReadIsRelayed(t *testing.T) {
	h := newHubHarness(t)
	s, b := h.joinBoth(t)
	watermark := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	send(t, s, models.EventMarkRead, models.MarkReadPayload{RoomID: room, Watermark: models.JSONTime(watermark)})

	var ev models.MessagesReadEvent
	require.Equal(t, models.EventMessagesRead, read(t, b, &ev))
	assert.Equal(t, seller, ev.ReaderID)
	assert.True(t, ev.Watermark.Time().Equal(watermark))
}

func TestHub_BroadcastFromDurablePath(t *testing.T) {
	h := newHubHarness(t)
	_, b := h.joinBoth(t)

	h.hub.BroadcastNewMessage(&models.Message{ID: 9, RoomID: room, SenderID: seller, Content: "yes", SentAt: time.Now()})

	var ev models.NewMessageEvent
	require.Equal(t, models.EventNewMessage, read(t, b, &ev))
	assert.Equal(t, int64(9), ev.ID)
}

func TestHub_UnknownFrame(t *testing.T) {
	h := newHubHarness(t)
	b := h.dial(t, buyer)

	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	var ev models.ErrorEvent
	require.Equal(t, models.EventError, read(t, b, &ev))
	assert.Equal(t, ErrCodeUnknownType, ev.Code)

	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.Equal(t, models.EventError, read(t, b, &ev))
	assert.Equal(t, ErrCodeInvalidFrame, ev.Code)
}

func TestHub_LeaveAndDisconnect(t *testing.T) {
	h := newHubHarness(t)
	s, b := h.joinBoth(t)

	send(t, s, models.EventLeave, models.RoomRef{RoomID: room})
	require.Eventually(t, func() bool { return h.hub.roomMembers(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return h.hub.roomMembers(room) == 0 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return testutil.ToFloat64(h.metrics.LiveConnections) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsMissingToken(t *testing.T) {
	h := newHubHarness(t)
	_, resp, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
