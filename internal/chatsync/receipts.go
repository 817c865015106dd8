package chatsync

import "time"

// ReadReceiptTracker keeps the two read watermarks of a room: how far the local user
// has read the other participant's messages, and how far the other participant has
// read ours. Both only move forward.
//
// A local advance is two-phase: Advance reserves a candidate while the durable call is
// in flight, then Commit or Abort settles it. An aborted advance is retried by the next
// focus event because LocalReadUpTo never moved.
type ReadReceiptTracker struct {
	local    time.Time
	remote   time.Time
	inflight time.Time
	retry    bool
}

func NewReadReceiptTracker() *ReadReceiptTracker {
	return &ReadReceiptTracker{}
}

func (t *ReadReceiptTracker) LocalReadUpTo() time.Time {
	return t.local
}

func (t *ReadReceiptTracker) RemoteReadUpTo() time.Time {
	return t.remote
}

// Advance reserves candidate when it is past the committed watermark and no other
// advance is in flight.
func (t *ReadReceiptTracker) Advance(candidate time.Time) bool {
	if !t.inflight.IsZero() || !candidate.After(t.local) {
		return false
	}
	t.inflight = candidate
	return true
}

// Commit settles the in-flight advance and returns the new local watermark.
func (t *ReadReceiptTracker) Commit() time.Time {
	if t.inflight.After(t.local) {
		t.local = t.inflight
	}
	t.inflight = time.Time{}
	t.retry = false
	return t.local
}

func (t *ReadReceiptTracker) Abort() {
	t.inflight = time.Time{}
	t.retry = true
}

// PendingRetry reports whether the last durable mark-read failed and nothing has
// succeeded since.
func (t *ReadReceiptTracker) PendingRetry() bool {
	return t.retry
}

// ApplyRemote moves the remote watermark forward. Same or older watermarks are no-ops.
func (t *ReadReceiptTracker) ApplyRemote(watermark time.Time) bool {
	if !watermark.After(t.remote) {
		return false
	}
	t.remote = watermark
	return true
}
