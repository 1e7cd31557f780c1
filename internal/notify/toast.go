package notify

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Toast defaults: four seconds, bottom-right.
const (
	DefaultDuration = 4 * time.Second
	DefaultPosition = "bottom-right"
	KindError       = "error"
)

// Toast is one transient message waiting to be shown.
type Toast struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Kind      string        `json:"kind"`
	Duration  time.Duration `json:"-"`
	Position  string        `json:"position"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DurationMillis is exposed to templates and JSON clients.
func (t Toast) DurationMillis() int64 { return t.Duration.Milliseconds() }

// ToasterOptions tunes a Toaster.  Zero values take the defaults.
type ToasterOptions struct {
	Duration time.Duration
	Position string
	// Pending bounds the queue; the oldest toast is dropped on overflow.
	Pending int
	// Now is overridable for tests.
	Now func() time.Time
}

// Toaster queues error toasts until the next page render drains them.
// Multiple messages may be pending at once.  Safe for concurrent use.
type Toaster struct {
	opts ToasterOptions

	mu      sync.Mutex
	pending []Toast
	seq     atomic.Uint64
}

// NewToaster returns a Toaster with opts applied over the defaults.
func NewToaster(opts ToasterOptions) *Toaster {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Position == "" {
		opts.Position = DefaultPosition
	}
	if opts.Pending <= 0 {
		opts.Pending = 32
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Toaster{opts: opts}
}

// Notify implements Notifier by queueing an error toast.
func (t *Toaster) Notify(msg string) {
	toast := Toast{
		ID:        strconv.FormatUint(t.seq.Add(1), 10),
		Message:   msg,
		Kind:      KindError,
		Duration:  t.opts.Duration,
		Position:  t.opts.Position,
		CreatedAt: t.opts.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, toast)
	if over := len(t.pending) - t.opts.Pending; over > 0 {
		t.pending = append([]Toast(nil), t.pending[over:]...)
	}
}

// Pending returns the toasts that are still visible without removing them.
func (t *Toaster) Pending() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked()
	return append([]Toast(nil), t.pending...)
}

// Drain returns the visible toasts and empties the queue.
func (t *Toaster) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked()
	out := t.pending
	t.pending = nil
	return out
}

// Dismiss removes the toast with the given ID.  It reports whether a toast
// was removed.
func (t *Toaster) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, p := range t.pending {
		if p.ID == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// expireLocked drops toasts whose display window has passed.
func (t *Toaster) expireLocked() {
	now := t.opts.Now()
	kept := t.pending[:0]
	for _, p := range t.pending {
		if now.Sub(p.CreatedAt) < p.Duration {
			kept = append(kept, p)
		}
	}
	t.pending = kept
}
