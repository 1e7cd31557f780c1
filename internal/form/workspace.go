package form

import (
	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/cache"
	"github.com/yanizio/loanform/internal/metrics"
	"github.com/yanizio/loanform/internal/notify"
	"github.com/yanizio/loanform/internal/summary"
)

// Workspace is one user's form: its field values, pending toasts, the
// summary state it owns, and the controller that writes that state.
type Workspace struct {
	Fields     *Fields
	Summary    *summary.State
	Toasts     *notify.Toaster
	Controller *Controller
}

// NewWorkspace wires a fresh workspace around client.
func NewWorkspace(client summary.Client, toastOpts notify.ToasterOptions, log *zap.SugaredLogger) *Workspace {
	ws := &Workspace{
		Fields:  &Fields{},
		Summary: &summary.State{},
		Toasts:  notify.NewToaster(toastOpts),
	}
	sink := notify.Multi{ws.Toasts}
	if log != nil {
		sink = append(sink, notify.Log{L: log})
	}
	ws.Controller = NewController(client, ws.Summary.Setter(), sink, log)
	return ws
}

// Workspaces holds one Workspace per session in a bounded LRU.
type Workspaces struct {
	lru       *cache.LRU[string, *Workspace]
	client    summary.Client
	toastOpts notify.ToasterOptions
	log       *zap.SugaredLogger
}

// NewWorkspaces returns a registry holding at most size sessions.
func NewWorkspaces(size int, client summary.Client, toastOpts notify.ToasterOptions, log *zap.SugaredLogger) *Workspaces {
	w := &Workspaces{
		lru:       cache.New[string, *Workspace](size),
		client:    client,
		toastOpts: toastOpts,
		log:       log,
	}
	w.lru.OnEvict(func(string, *Workspace) { metrics.ActiveSessions.Dec() })
	return w
}

// Lookup returns the workspace for session without creating one.
func (w *Workspaces) Lookup(session string) (*Workspace, bool) {
	return w.lru.Get(session)
}

// Get returns the workspace for session, creating it on first use.  Only
// submissions call Get, so a client that merely reads pages never takes a
// slot.
func (w *Workspaces) Get(session string) *Workspace {
	ws, created := w.lru.GetOrAdd(session, func() *Workspace {
		return NewWorkspace(w.client, w.toastOpts, w.log)
	})
	if created {
		metrics.ActiveSessions.Inc()
	}
	return ws
}

// Len reports how many sessions are held.
func (w *Workspaces) Len() int { return w.lru.Len() }
