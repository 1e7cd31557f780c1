// internal/notify/notify.go
//
// Loanform – user notification sinks.
//
// Context
//   The form controller reports validation failures and service outages by
//   pushing short messages to a Notifier.  Delivery is fire-and-forget: the
//   controller never learns whether, or how, a message was displayed.  The
//   browser surface uses a Toaster (see toast.go); the CLI writes lines to
//   stderr; every sink can be tee'd to the structured log.
//
//------------------------------------------------------------------------------

package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Notifier displays a message to the user.
type Notifier interface {
	Notify(message string)
}

// Func adapts a plain function to Notifier.
type Func func(string)

// Notify implements Notifier.
func (f Func) Notify(m string) { f(m) }

// Multi fans a message out to every sink in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(msg string) {
	for _, n := range m {
		if n != nil {
			n.Notify(msg)
		}
	}
}

// Log writes each message to a zap logger at WARN.
type Log struct{ L *zap.SugaredLogger }

// Notify implements Notifier.
func (l Log) Notify(msg string) {
	if l.L == nil {
		return
	}
	l.L.Warnw("user notification", "message", msg)
}

// Writer prints one line per message.  Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

// NewWriter returns a Writer for w.
func NewWriter(w io.Writer) *Writer { return &Writer{W: w} }

// Notify implements Notifier.
func (w *Writer) Notify(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.W, "! %s\n", msg)
}

// Recorder keeps every message in memory.  Useful for tests and for JSON
// responses that echo the notifications of a single request.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

// Notify implements Notifier.
func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
