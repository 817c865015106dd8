package cli

import (
	"fmt"
	"strings"
	"sync"

	"nearbuy-chat/internal/chatsync"
)

type lineState struct {
	state chatsync.DeliveryState
	read  bool
}

// transcript turns successive room snapshots into printable lines: a new message
// prints once, and an own message prints again when it is confirmed or read.
type transcript struct {
	mu      sync.Mutex
	self    int64
	other   string
	printed map[string]lineState
}

func newTranscript(self int64, other string) *transcript {
	if other == "" {
		other = "them"
	}
	return &transcript{self: self, other: other, printed: make(map[string]lineState)}
}

// diff returns the lines to print for msgs and whether any of them is a new
// message from the other participant.
func (t *transcript) diff(msgs []chatsync.Message) ([]string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		lines     []string
		fromOther bool
	)
	for _, m := range msgs {
		cur := lineState{state: m.DeliveryState, read: m.ReadAt != nil}
		prev, seen := t.printed[m.LocalID]
		t.printed[m.LocalID] = cur
		switch {
		case !seen:
			lines = append(lines, t.format(m))
			fromOther = fromOther || !m.IsOwn(t.self)
		case m.IsOwn(t.self) && prev != cur:
			lines = append(lines, "  "+t.mark(m)+" "+truncate(m.Content, 30))
		}
	}
	return lines, fromOther
}

func (t *transcript) format(m chatsync.Message) string {
	who := t.other
	if m.IsOwn(t.self) {
		who = "you"
	}
	line := fmt.Sprintf("[%s] %s: %s", m.SentAt.Local().Format("15:04"), who, m.Content)
	if m.IsOwn(t.self) {
		line += " " + t.mark(m)
	}
	return line
}

func (t *transcript) mark(m chatsync.Message) string {
	switch {
	case m.DeliveryState == chatsync.Pending:
		return "…"
	case m.ReadAt != nil:
		return "✓✓"
	case m.DeliveryState == chatsync.Confirmed:
		return "✓"
	default:
		return "✗"
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
