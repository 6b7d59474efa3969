package view

import (
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/benbjohnson/clock"
)

// DefaultNoticeDuration is how long a notice stays visible.
const DefaultNoticeDuration = 5 * time.Second

// Kind is the style of a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// NoticeState is a point-in-time copy of a Notice.
type NoticeState struct {
	Visible   bool
	Kind      Kind
	Text      string
	Remaining time.Duration
}

// Notice is a transient status message. Every Show takes a new token and
// schedules its own hide; a hide whose token is no longer current is
// ignored, so an older timer never hides a newer message.
type Notice struct {
	clock    clock.Clock
	duration time.Duration

	mu        sync.Mutex
	token     uint64
	visible   bool
	kind      Kind
	text      string
	expiresAt time.Time

	// onExpire, when set, is called after every scheduled hide with
	// whether it applied.
	onExpire func(token uint64, applied bool)
}

// NewNotice returns a hidden notice. A nil clk uses the wall clock; a
// non-positive d uses DefaultNoticeDuration.
func NewNotice(clk clock.Clock, d time.Duration) *Notice {
	if clk == nil {
		clk = clock.New()
	}
	if d <= 0 {
		d = DefaultNoticeDuration
	}
	return &Notice{clock: clk, duration: d}
}

// Show makes the notice visible with kind and text and returns its token.
func (n *Notice) Show(kind Kind, text string) uint64 {
	n.mu.Lock()
	n.token++
	token := n.token
	n.visible = true
	n.kind = kind
	n.text = text
	n.expiresAt = n.clock.Now().Add(n.duration)
	n.mu.Unlock()

	metrics.TrackNotice(string(kind))
	n.clock.AfterFunc(n.duration, func() { n.expire(token) })
	return token
}

func (n *Notice) expire(token uint64) {
	n.mu.Lock()
	applied := token == n.token
	if applied {
		n.visible = false
	}
	hook := n.onExpire
	n.mu.Unlock()

	if hook != nil {
		hook(token, applied)
	}
}

// State returns the current state.
func (n *Notice) State() NoticeState {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.visible {
		return NoticeState{}
	}
	remaining := n.expiresAt.Sub(n.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return NoticeState{Visible: true, Kind: n.kind, Text: n.text, Remaining: remaining}
}
