package chatsync

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"nearbuy-chat/internal/models"
)

// RoomState is the lifecycle state of an open conversation.
type RoomState int

const (
	RoomJoining RoomState = iota
	RoomReady
	// RoomDegraded means the live channel is down: sends still persist through the
	// durable path but arrivals and receipts wait for the re-join.
	RoomDegraded
	RoomFailed
	RoomClosed
)

func (s RoomState) String() string {
	switch s {
	case RoomJoining:
		return "joining"
	case RoomReady:
		return "ready"
	case RoomDegraded:
		return "degraded"
	case RoomFailed:
		return "failed"
	case RoomClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RoomConfig wires a Room to its collaborators.
type RoomConfig struct {
	RoomID  int64
	Self    int64
	API     DurableAPI
	Channel LiveChannel
	Logger  *slog.Logger
	// Inbox, when set, is told about every merged message and successful read mark.
	Inbox   *Inbox

	// Hooks run on the room's event loop and must not call back into the Room.
	OnChange func(messages []Message)
	OnError  func(err error)

	Now        func() time.Time
	NewLocalID func() string
}

// Room is one open conversation. A single goroutine owns the message store and the
// read tracker; channel callbacks and durable-call completions are posted to it as
// events, so every mutation is applied in arrival order without locking.
type Room struct {
	id       int64
	self     int64
	api      DurableAPI
	ch       LiveChannel
	log      *slog.Logger
	inbox    *Inbox
	onChange func([]Message)
	onError  func(error)
	now      func() time.Time

	events    chan func()
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
	closeOnce sync.Once

	// owned by the loop
	rec      *Reconciler
	receipts *ReadReceiptTracker
	state    RoomState
	err      error
	focused  bool

	mu      sync.RWMutex
	snap    []Message
	snapSt  RoomState
	snapErr error
	listing models.ListingInfo
}

// NewRoom starts the room's event loop. Close must be called to stop it.
func NewRoom(cfg RoomConfig) *Room {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	var opts []ReconcilerOption
	if cfg.NewLocalID != nil {
		opts = append(opts, WithLocalIDs(cfg.NewLocalID))
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Room{
		id:       cfg.RoomID,
		self:     cfg.Self,
		api:      cfg.API,
		ch:       cfg.Channel,
		log:      logger.With("room_id", cfg.RoomID),
		inbox:    cfg.Inbox,
		onChange: cfg.OnChange,
		onError:  cfg.OnError,
		now:      now,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		rec:      NewReconciler(cfg.Self, NewMessageStore(), opts...),
		receipts: NewReadReceiptTracker(),
		state:    RoomJoining,
		snapSt:   RoomJoining,
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case fn := <-r.events:
			if r.closed.Load() {
				return
			}
			fn()
		case <-r.done:
			return
		}
	}
}

// post queues fn on the loop. It reports false once the room is closed.
func (r *Room) post(fn func()) bool {
	if r.closed.Load() {
		return false
	}
	select {
	case r.events <- fn:
		return true
	case <-r.done:
		return false
	}
}

// call runs fn on the loop and waits for it.
func (r *Room) call(ctx context.Context, fn func()) error {
	reply := make(chan struct{})
	if !r.post(func() { fn(); close(reply) }) {
		return ErrRoomClosed
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		select {
		case <-reply:
			return nil
		default:
			return ErrRoomClosed
		}
	}
}

// Open subscribes to the live channel and seeds the store from history. A failed join
// leaves the room degraded; a failed history fetch fails the room.
func (r *Room) Open(ctx context.Context) error {
	r.ch.OnArrival(func(a Arrival) {
		r.post(func() { r.handleArrival(a) })
	})
	r.ch.OnReadReceipt(func(rc ReadReceipt) {
		r.post(func() { r.handleReceipt(rc) })
	})
	r.ch.OnStateChange(func(connected bool) {
		r.post(func() { r.handleConnection(connected) })
	})

	if err := r.ch.Join(ctx); err != nil {
		r.log.Warn("live channel join failed, continuing degraded", "err", err)
		r.post(func() { r.handleConnection(false) })
	}
	return r.loadHistory(ctx, false)
}

func (r *Room) loadHistory(ctx context.Context, backfill bool) error {
	resp, err := r.api.FetchHistory(ctx, r.id)
	if err != nil {
		rerr := newRoomError(CodeHistoryFetchFailed, r.id, err)
		r.log.Error("history fetch failed", "backfill", backfill, "err", err)
		if !backfill {
			_ = r.call(context.Background(), func() {
				r.state = RoomFailed
				r.err = rerr
				r.publish()
				r.report(rerr)
			})
		}
		return rerr
	}

	arrivals := make([]Arrival, 0, len(resp.Messages))
	var ownReadUpTo time.Time
	for _, hm := range resp.Messages {
		a := Arrival{
			RoomID:      r.id,
			ServerID:    hm.ID,
			SenderID:    hm.SenderID,
			Content:     hm.Content,
			SentAt:      hm.SentAt.Time(),
			ReadAt:      hm.ReadAt.TimePtr(),
			ClientMsgID: hm.ClientMsgID,
		}
		// the watermark is a sent time; ReadAt is when the reader saw it
		if a.SenderID == r.self && a.ReadAt != nil && a.SentAt.After(ownReadUpTo) {
			ownReadUpTo = a.SentAt
		}
		arrivals = append(arrivals, a)
	}

	return r.call(context.Background(), func() {
		n := r.rec.Seed(arrivals)
		r.receipts.ApplyRemote(ownReadUpTo)
		r.restampReads()
		if r.state == RoomJoining {
			r.state = RoomReady
		}
		r.mu.Lock()
		r.listing = resp.Listing
		r.mu.Unlock()
		r.log.Debug("history merged", "rows", len(arrivals), "changed", n, "backfill", backfill)
		r.publish()
	})
}

// Send inserts the optimistic row and returns its local id once the row is visible.
// Delivery continues in the background on both paths and outlives ctx; the result is
// applied to the store unless the room is closed first.
func (r *Room) Send(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	var (
		m   Message
		err error
	)
	if cerr := r.call(ctx, func() {
		m, err = r.rec.AddPending(content, r.now())
		if err == nil {
			r.publish()
		}
	}); cerr != nil {
		return "", cerr
	}
	if err != nil {
		return "", err
	}
	go r.deliver(m)
	return m.LocalID, nil
}

func (r *Room) deliver(m Message) {
	if err := r.ch.Send(m.LocalID, m.Content); err != nil {
		r.log.Debug("live send skipped", "local_id", m.LocalID, "err", err)
	}

	resp, err := r.api.CreateMessage(r.ctx, r.id, m.Content, m.LocalID)
	if err != nil {
		r.post(func() {
			_, out := r.rec.Fail(m.LocalID)
			r.log.Warn("send failed", "local_id", m.LocalID, "outcome", out.String(), "err", err)
			if out == Removed {
				r.publish()
			}
			r.report(&RoomError{Code: CodeSendFailed, RoomID: r.id, LocalID: m.LocalID, Err: err})
		})
		return
	}

	r.post(func() {
		out := r.rec.Confirm(m.LocalID, resp.MessageID, resp.SentAt.Time())
		r.log.Debug("send confirmed", "local_id", m.LocalID, "server_id", resp.MessageID, "outcome", out.String())
		if out.Changed() {
			r.restampReads()
			r.observe(resp.MessageID)
			r.publish()
		}
	})
}

// MarkVisibleAsRead marks the room read up to the newest message of the other
// participant. The local watermark only advances after the durable call succeeds, so
// a failure is retried by the next call.
func (r *Room) MarkVisibleAsRead(ctx context.Context) error {
	var advance bool
	if err := r.call(ctx, func() {
		r.focused = true
		if latest, ok := r.rec.Store().LatestNotFrom(r.self); ok {
			advance = r.receipts.Advance(latest)
		}
	}); err != nil {
		return err
	}
	if !advance {
		return nil
	}

	resp, err := r.api.MarkRead(ctx, r.id)
	if err != nil {
		r.post(func() { r.receipts.Abort() })
		r.log.Debug("mark read failed, retrying on next focus", "err", err)
		return newRoomError(CodeReadMarkFailed, r.id, err)
	}

	r.post(func() {
		w := r.receipts.Commit()
		if err := r.ch.MarkRead(w); err != nil {
			r.log.Debug("live mark read skipped", "err", err)
		}
		if r.inbox != nil {
			r.inbox.MarkRoomRead(r.id)
		}
		r.log.Debug("room marked read", "watermark", w, "marked", resp.MarkedRead)
	})
	return nil
}

// Blur tells the room it lost foreground focus.
func (r *Room) Blur() {
	r.post(func() { r.focused = false })
}

func (r *Room) handleArrival(a Arrival) {
	if a.RoomID != 0 && a.RoomID != r.id {
		return
	}
	out := r.rec.Arrive(a)
	if !out.Changed() {
		return
	}
	r.log.Debug("arrival merged", "server_id", a.ServerID, "sender_id", a.SenderID, "outcome", out.String())
	r.restampReads()
	r.observe(a.ServerID)
	r.publish()
}

func (r *Room) handleReceipt(rc ReadReceipt) {
	if !rc.FromOther || (rc.RoomID != 0 && rc.RoomID != r.id) {
		return
	}
	if !r.receipts.ApplyRemote(rc.Watermark) {
		return
	}
	if r.restampReads() > 0 {
		r.publish()
	}
}

func (r *Room) handleConnection(connected bool) {
	switch {
	case !connected && (r.state == RoomJoining || r.state == RoomReady):
		r.state = RoomDegraded
		r.log.Warn("live channel degraded")
		r.publish()
		r.report(newRoomError(CodeChannelDisconnect, r.id, nil))
	case connected && r.state == RoomDegraded:
		r.state = RoomReady
		r.log.Info("live channel restored, backfilling history")
		r.publish()
		go func() { _ = r.loadHistory(r.ctx, true) }()
	}
}

// restampReads applies the remote watermark to own messages.
func (r *Room) restampReads() int {
	w := r.receipts.RemoteReadUpTo()
	if w.IsZero() {
		return 0
	}
	return r.rec.Store().MarkReadUpTo(r.self, w)
}

func (r *Room) observe(serverID int64) {
	if r.inbox == nil {
		return
	}
	if m, ok := r.rec.Store().ByKey(ServerKey(serverID)); ok {
		r.inbox.ObserveMessage(r.id, m, r.focused)
	}
}

func (r *Room) publish() {
	msgs := r.rec.Store().Messages()
	r.mu.Lock()
	r.snap = msgs
	r.snapSt = r.state
	r.snapErr = r.err
	r.mu.Unlock()
	if r.onChange != nil {
		r.onChange(msgs)
	}
}

func (r *Room) report(err error) {
	if r.onError != nil {
		r.onError(err)
	}
}

// Messages returns the latest published store contents in display order.
func (r *Room) Messages() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Message, len(r.snap))
	for i, m := range r.snap {
		out[i] = m.clone()
	}
	return out
}

func (r *Room) State() RoomState {
	if r.closed.Load() {
		return RoomClosed
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapSt
}

// Err returns the error that failed the room, if any.
func (r *Room) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapErr
}

// Listing returns the listing context delivered with the history.
func (r *Room) Listing() models.ListingInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listing
}

func (r *Room) ID() int64 {
	return r.id
}

// Close leaves the live channel and stops the loop. Pending durable results are
// dropped when they complete.
func (r *Room) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		r.cancel()
		close(r.done)
		err = r.ch.Leave()
		r.log.Debug("room closed")
	})
	return err
}
