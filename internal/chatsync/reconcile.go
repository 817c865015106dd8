package chatsync

import (
	"time"
)

// Outcome reports what a reconciler step did to the store.
type Outcome int

const (
	Ignored Outcome = iota
	Inserted
	Reconciled
	Refreshed
	Swapped
	Removed
	Kept
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Inserted:
		return "inserted"
	case Reconciled:
		return "reconciled"
	case Refreshed:
		return "refreshed"
	case Swapped:
		return "swapped"
	case Removed:
		return "removed"
	case Kept:
		return "kept"
	default:
		return "unknown"
	}
}

// Changed reports whether the step mutated the store.
func (o Outcome) Changed() bool {
	return o != Ignored && o != Kept
}

// Reconciler merges history rows, optimistic sends, durable confirmations and live
// arrivals into one MessageStore. Each method is a single check-then-mutate step and
// must be called from one goroutine.
type Reconciler struct {
	self   int64
	store  *MessageStore
	newID  func() string
	failed map[string]struct{}
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithLocalIDs replaces the local id generator.
func WithLocalIDs(gen func() string) ReconcilerOption {
	return func(r *Reconciler) { r.newID = gen }
}

func NewReconciler(self int64, store *MessageStore, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		self:   self,
		store:  store,
		newID:  NewLocalID,
		failed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) Store() *MessageStore {
	return r.store
}

// Seed merges a history page. Rows already present are skipped, and an own row whose
// client message id names a local send reconciles that send. Seed never matches by
// content. It returns how many rows changed the store.
func (r *Reconciler) Seed(history []Arrival) int {
	n := 0
	for _, a := range history {
		if r.arrive(a, false).Changed() {
			n++
		}
	}
	return n
}

// AddPending inserts the optimistic row for a local send.
func (r *Reconciler) AddPending(content string, now time.Time) (Message, error) {
	m := Message{
		LocalID:       r.newID(),
		Content:       content,
		SenderID:      r.self,
		SentAt:        now,
		DeliveryState: Pending,
	}
	if err := r.store.Insert(m); err != nil {
		return Message{}, err
	}
	out, _ := r.store.ByLocalID(m.LocalID)
	return out, nil
}

// Confirm applies the durable result of the send localID. The row keeps its LocalID;
// its key, state and SentAt change in place. When the server id is already held by
// another row (an echo matched by content to the wrong send), the two rows trade
// identities so the durable result wins.
func (r *Reconciler) Confirm(localID string, serverID int64, sentAt time.Time) Outcome {
	e, ok := r.store.byLocal[localID]
	if !ok {
		return Ignored
	}
	key := ServerKey(serverID)
	if e.DedupKey == key {
		_ = r.store.Rekey(localID, serverID, sentAt)
		return Refreshed
	}

	if o, taken := r.store.byKey[key]; taken {
		other := o.LocalID
		_ = r.store.swap(localID, other)
		_ = r.store.Rekey(localID, serverID, sentAt)
		if o.DeliveryState == Pending {
			if _, failed := r.failed[other]; failed {
				r.store.Remove(other)
			}
		}
		return Swapped
	}

	if e.DeliveryState == Confirmed && e.ServerID != nil {
		// e carried the id of another send with the same content.
		orphan := *e.ServerID
		orphanAt := e.SentAt
		_ = r.store.Rekey(localID, serverID, sentAt)
		if heir, ok := r.store.OldestPending(r.self, e.Content, localID); ok {
			_ = r.store.Rekey(heir.LocalID, orphan, orphanAt)
		} else {
			_ = r.store.Insert(Message{
				ServerID:      &orphan,
				LocalID:       r.newID(),
				Content:       e.Content,
				SenderID:      r.self,
				SentAt:        orphanAt,
				DeliveryState: Confirmed,
			})
		}
		return Reconciled
	}

	_ = r.store.Rekey(localID, serverID, sentAt)
	return Reconciled
}

// Fail applies a durable failure for the send localID. A still pending row is removed
// and returned with DeliveryState Failed. A row already confirmed by its echo is kept.
func (r *Reconciler) Fail(localID string) (Message, Outcome) {
	r.failed[localID] = struct{}{}
	m, ok := r.store.ByLocalID(localID)
	if !ok {
		return Message{}, Ignored
	}
	if m.DeliveryState != Pending {
		return m, Kept
	}
	r.store.Remove(localID)
	m.DeliveryState = Failed
	return m, Removed
}

// Arrive merges a live arrival.
func (r *Reconciler) Arrive(a Arrival) Outcome {
	return r.arrive(a, true)
}

func (r *Reconciler) arrive(a Arrival, byContent bool) Outcome {
	if _, ok := r.store.byKey[ServerKey(a.ServerID)]; ok {
		return Ignored
	}

	if a.SenderID == r.self {
		var out Outcome
		var localID string
		switch {
		case a.ClientMsgID != "":
			if _, ok := r.store.byLocal[a.ClientMsgID]; ok {
				localID = a.ClientMsgID
				out = r.Confirm(localID, a.ServerID, a.SentAt)
			}
		case byContent:
			if p, ok := r.store.OldestPending(r.self, a.Content, ""); ok {
				localID = p.LocalID
				_ = r.store.Rekey(localID, a.ServerID, a.SentAt)
				out = Reconciled
			}
		}
		if localID != "" {
			if a.ReadAt != nil {
				r.store.setReadAt(localID, *a.ReadAt)
			}
			return out
		}
	}

	id := a.ServerID
	m := Message{
		ServerID:      &id,
		LocalID:       r.newID(),
		Content:       a.Content,
		SenderID:      a.SenderID,
		SentAt:        a.SentAt,
		ReadAt:        a.ReadAt,
		DeliveryState: Confirmed,
	}
	if err := r.store.Insert(m); err != nil {
		return Ignored
	}
	return Inserted
}
