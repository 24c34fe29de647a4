package views

import (
	"sync"
	"time"

	"hotelres/internal/utils"
)

const (
	ErrorLifetime   = 5 * time.Second
	SuccessLifetime = 3 * time.Second
)

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

type Notice struct {
	Kind    Kind      `json:"kind"`
	Text    string    `json:"text"`
	Expires time.Time `json:"expires"`
}

// Notices is the shared stack of transient messages.
type Notices struct {
	mu    sync.Mutex
	items []Notice
	now   func() time.Time
	sink  func(Notice)
}

// NewNotices uses now as the clock; nil means time.Now.
func NewNotices(now func() time.Time) *Notices {
	if now == nil {
		now = time.Now
	}
	return &Notices{now: now}
}

// OnNotice registers fn to see every notice as it is raised.
func (n *Notices) OnNotice(fn func(Notice)) {
	n.mu.Lock()
	n.sink = fn
	n.mu.Unlock()
}

func (n *Notices) Error(text string)   { n.push(KindError, text, ErrorLifetime) }
func (n *Notices) Success(text string) { n.push(KindSuccess, text, SuccessLifetime) }

// Fail raises the user-facing message for err.
func (n *Notices) Fail(err error) { n.Error(utils.Message(err)) }

func (n *Notices) push(kind Kind, text string, life time.Duration) {
	n.mu.Lock()
	note := Notice{Kind: kind, Text: text, Expires: n.now().Add(life)}
	n.items = append(n.items, note)
	sink := n.sink
	n.mu.Unlock()
	if sink != nil {
		sink(note)
	}
}

// Active returns the notices still alive at now and drops the rest.
func (n *Notices) Active(now time.Time) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	live := n.items[:0]
	for _, note := range n.items {
		if now.Before(note.Expires) {
			live = append(live, note)
		}
	}
	n.items = live
	return append([]Notice(nil), live...)
}

// Last is the most recent live notice of kind, if any.
func (n *Notices) Last(kind Kind) (Notice, bool) {
	active := n.Active(n.now())
	for i := len(active) - 1; i >= 0; i-- {
		if active[i].Kind == kind {
			return active[i], true
		}
	}
	return Notice{}, false
}
