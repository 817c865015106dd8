package chatsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadReceiptTracker_RemoteWatermarkIsMonotonic(t *testing.T) {
	tr := NewReadReceiptTracker()

	assert.True(t, tr.ApplyRemote(at(20)))
	assert.False(t, tr.ApplyRemote(at(10)))
	assert.False(t, tr.ApplyRemote(at(20)))
	assert.Equal(t, at(20), tr.RemoteReadUpTo())
}

func TestReadReceiptTracker_AdvanceCommit(t *testing.T) {
	tr := NewReadReceiptTracker()

	assert.True(t, tr.Advance(at(5)))
	assert.False(t, tr.Advance(at(6)), "one advance in flight at a time")
	assert.True(t, tr.LocalReadUpTo().IsZero())

	assert.Equal(t, at(5), tr.Commit())
	assert.False(t, tr.Advance(at(5)))
	assert.False(t, tr.Advance(at(4)))
	assert.True(t, tr.Advance(at(6)))
}

func TestReadReceiptTracker_AbortLeavesWatermarkForRetry(t *testing.T) {
	tr := NewReadReceiptTracker()

	assert.True(t, tr.Advance(at(5)))
	tr.Abort()

	assert.True(t, tr.PendingRetry())
	assert.True(t, tr.LocalReadUpTo().IsZero())
	assert.True(t, tr.Advance(at(5)))
	tr.Commit()
	assert.False(t, tr.PendingRetry())
	assert.Equal(t, at(5), tr.LocalReadUpTo())
}
