// internal/form/controller.go
//
// Loanform – submission controller.
//
// Context
//   Submit is the one place where validation, notification, the summary
//   service, and the shared summary state meet.  The validator only returns
//   an Outcome; the controller decides what the user sees.
//
// Workflow
//   •  Every call takes a new generation number.
//   •  Invalid input: each message goes to the Notifier once, the summary is
//      cleared, and the service is not called.
//   •  Valid input: the service is called exactly once.  A success replaces
//      the summary, but only if no newer submission has started since
//      (last-submitted-wins).  A failure sends one generic message and leaves
//      the summary untouched.
//   •  Panics raised by the service are recovered here and treated as a
//      service failure.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/logger"
	"github.com/yanizio/loanform/internal/metrics"
	"github.com/yanizio/loanform/internal/notify"
	"github.com/yanizio/loanform/internal/summary"
)

// MsgUnavailable is shown when the summary service fails for any reason.
const MsgUnavailable = "Ops! Operação indisponível temporariamente."

// Result describes what one Submit call did.  It carries no user-facing text
// beyond what was already sent to the Notifier.
type Result struct {
	Outcome    loan.Outcome
	Called     bool          // the summary service was invoked
	Schedule   loan.Schedule // service response, nil unless it succeeded
	Err        error         // service failure, nil otherwise
	Committed  bool          // the shared summary was written
	Stale      bool          // a newer submission superseded this response
	Generation uint64
}

// Controller orchestrates one form's submissions.
type Controller struct {
	client  summary.Client
	set     summary.Setter
	notify  notify.Notifier
	baseLog *zap.SugaredLogger

	mu     sync.Mutex
	latest uint64
}

// NewController wires the collaborators.  log may be nil, in which case the
// context logger is used.
func NewController(c summary.Client, set summary.Setter, n notify.Notifier, log *zap.SugaredLogger) *Controller {
	if n == nil {
		n = notify.Multi{}
	}
	return &Controller{client: c, set: set, notify: n, baseLog: log}
}

// Submit validates req and, when valid, asks the summary service for a
// schedule.  See the file header for the full contract.
func (c *Controller) Submit(ctx context.Context, req loan.Request) Result {
	log := c.log(ctx)
	res := Result{Generation: c.begin()}

	res.Outcome = loan.Validate(req)
	if !res.Outcome.Valid {
		for i, msg := range res.Outcome.Messages {
			metrics.ValidationFailures.WithLabelValues(string(res.Outcome.Rules[i])).Inc()
			c.notify.Notify(msg)
		}
		res.Committed = c.commit(res.Generation, loan.Schedule{})
		res.Stale = !res.Committed
		metrics.Submissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		log.Debugw("loan request rejected", "rules", res.Outcome.Rules, "gen", res.Generation)
		return res
	}

	res.Called = true
	sched, err := c.call(ctx, req)
	if err != nil {
		res.Err = err
		c.notify.Notify(MsgUnavailable)
		metrics.Submissions.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		log.Errorw("summary service failed", "err", err, "gen", res.Generation)
		return res
	}

	res.Schedule = sched
	res.Committed = c.commit(res.Generation, sched)
	if !res.Committed {
		res.Stale = true
		metrics.StaleResponses.Inc()
		metrics.Submissions.WithLabelValues(metrics.OutcomeStale).Inc()
		log.Infow("discarded stale summary", "gen", res.Generation, "entries", len(sched))
		return res
	}
	metrics.Submissions.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Infow("summary updated", "gen", res.Generation, "entries", len(sched))
	return res
}

// begin allocates the next generation and marks it newest.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

// commit writes sched only when gen is still the newest submission.
func (c *Controller) commit(gen uint64, sched loan.Schedule) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.latest {
		return false
	}
	if c.set != nil {
		c.set(sched)
	}
	return true
}

// call invokes the service and converts a panic into an error.
func (c *Controller) call(ctx context.Context, req loan.Request) (sched loan.Schedule, err error) {
	defer func() {
		if r := recover(); r != nil {
			sched, err = nil, fmt.Errorf("%w: panic: %v", summary.ErrUnavailable, r)
		}
	}()
	return c.client.Summarize(ctx, req)
}

func (c *Controller) log(ctx context.Context) *zap.SugaredLogger {
	if c.baseLog != nil {
		return c.baseLog
	}
	return logger.FromContext(ctx)
}
