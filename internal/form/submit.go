// internal/form/submit.go
//
// Loanform – Forms subsystem: HTTP handlers.
//
// Context
//   Two surfaces drive the same Controller.  The HTML form posts to “/” and
//   is redirected back so toasts render on the next GET.  JSON clients post
//   to /api/v1/summary and get the outcome in the response body.  Either
//   way the caller's workspace (fields, toasts, schedule) is updated, and the
//   attempt is written to the audit log with the client's browser class and
//   country.
//
// Workflow
//   •  session.Middleware assigns every browser a session ID.  The workspace
//      behind it is created on the first submission; reads of a session that
//      never submitted see an empty form.
//   •  POST / verifies CSRF, applies each posted input to Fields, and
//      submits Fields.Candidate().  A value that does not parse clears the
//      field so validation reports it as missing.
//   •  POST /api/v1/summary decodes a loan.Request, loads it into Fields,
//      and submits it.  422 on invalid input, 503 when the service fails.
//   •  Submit routes pass through opts.Limit when set.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/audit"
	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/logger"
	"github.com/yanizio/loanform/internal/metrics"
	"github.com/yanizio/loanform/internal/requestinfo"
	"github.com/yanizio/loanform/internal/session"
)

const maxBodyBytes = 64 << 10

// HandlerOptions wires a Handler.  Def, CSRF, and Workspaces are required.
type HandlerOptions struct {
	Def        *FormDef
	CSRF       *CSRF
	Workspaces *Workspaces
	Audit      audit.Recorder                  // nil → audit.Nop
	Clients    *requestinfo.Resolver           // nil → UA only, no geo
	Limit      func(http.Handler) http.Handler // wraps submit routes; nil → none
	Log        *zap.SugaredLogger              // nil → context logger
}

// Handler serves the form page and its JSON API.
type Handler struct {
	def     *FormDef
	csrf    *CSRF
	ws      *Workspaces
	audit   audit.Recorder
	clients *requestinfo.Resolver
	limit   func(http.Handler) http.Handler
	log     *zap.SugaredLogger
}

// NewHandler validates opts and returns a Handler.
func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Def == nil || opts.CSRF == nil || opts.Workspaces == nil {
		return nil, errors.New("form: handler needs Def, CSRF, and Workspaces")
	}
	h := &Handler{
		def:     opts.Def,
		csrf:    opts.CSRF,
		ws:      opts.Workspaces,
		audit:   opts.Audit,
		clients: opts.Clients,
		limit:   opts.Limit,
		log:     opts.Log,
	}
	if h.audit == nil {
		h.audit = audit.Nop{}
	}
	if h.limit == nil {
		h.limit = func(next http.Handler) http.Handler { return next }
	}
	return h, nil
}

// Routes mounts the form surface on r.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(session.Middleware)

		r.Get("/", h.page)
		r.With(h.limit).Post("/", h.submitForm)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/summary", h.getSummary)
			r.With(h.limit).Post("/summary", h.postSummary)
			r.Delete("/toasts/{id}", h.dismissToast)
		})
	})
}

/*──────────────────────────────── HTML ────────────────────────────────────*/

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())

	tok, err := h.csrf.Generate(sid)
	if err != nil {
		h.fail(w, r, "csrf generate", err)
		return
	}
	opts := RenderOptions{CSRFToken: tok}
	if ws, ok := h.ws.Lookup(sid); ok {
		opts.Prefill = ws.Fields.Display()
		opts.Toasts = ws.Toasts.Pending()
		opts.Schedule = ws.Summary.Get()
	}
	doc, err := RenderPage(h.def, opts)
	if err != nil {
		h.fail(w, r, "render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", PageCSP)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc))
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form body", http.StatusBadRequest)
		return
	}

	sid := session.FromContext(r.Context())
	if !h.csrf.Verify(r.PostForm.Get("csrf_token"), sid) {
		h.logger(r).Warnw("csrf check failed", "remote", r.RemoteAddr)
		http.Error(w, "invalid or expired form, reload the page", http.StatusForbidden)
		return
	}

	ws := h.ws.Get(sid)
	for _, name := range FieldNames {
		vals, ok := r.PostForm[name]
		if !ok {
			continue
		}
		if err := ws.Fields.Set(name, vals[0]); err != nil {
			h.logger(r).Debugw("unparseable field cleared", "field", name, "err", err)
			ws.Fields.Clear(name)
		}
	}

	req := ws.Fields.Candidate()
	res := ws.Controller.Submit(r.Context(), req)
	h.record(r, sid, req, res)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*──────────────────────────────── JSON ────────────────────────────────────*/

// SummaryResponse is the body of both summary endpoints.
type SummaryResponse struct {
	Valid    bool          `json:"valid"`
	Messages []string      `json:"messages"`
	Summary  loan.Schedule `json:"summary"`
	Stale    bool          `json:"stale,omitempty"`
}

func (h *Handler) postSummary(w http.ResponseWriter, r *http.Request) {
	var req loan.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sid := session.FromContext(r.Context())
	ws := h.ws.Get(sid)
	ws.Fields.Load(req)

	res := ws.Controller.Submit(r.Context(), req)
	h.record(r, sid, req, res)

	status, body := summaryResponse(res, ws.Summary.Get())
	writeJSON(w, status, body)
}

// summaryResponse maps a Result to the JSON reply.  current is the session's
// schedule, returned when the service failed.  Stale is reported whatever the
// outcome: an invalid submission that lost the race did not clear the summary.
func summaryResponse(res Result, current loan.Schedule) (int, SummaryResponse) {
	body := SummaryResponse{
		Valid:    res.Outcome.Valid,
		Messages: messagesOf(res),
		Summary:  res.Schedule,
		Stale:    res.Stale,
	}
	switch {
	case !res.Outcome.Valid:
		body.Summary = loan.Schedule{}
		return http.StatusUnprocessableEntity, body
	case res.Err != nil:
		body.Summary = current
		return http.StatusServiceUnavailable, body
	}
	return http.StatusOK, body
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	body := SummaryResponse{Valid: true, Messages: []string{}, Summary: loan.Schedule{}}
	if ws, ok := h.ws.Lookup(session.FromContext(r.Context())); ok {
		body.Summary = ws.Summary.Get()
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) dismissToast(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.ws.Lookup(session.FromContext(r.Context()))
	if !ok || !ws.Toasts.Dismiss(chi.URLParam(r, "id")) {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/*─────────────────────────────── helpers ──────────────────────────────────*/

func (h *Handler) record(r *http.Request, sid string, req loan.Request, res Result) {
	raw, err := json.Marshal(req)
	if err != nil {
		raw = []byte("{}")
	}
	who := h.clients.Resolve(r)
	sub := audit.Submission{
		Session:  sid,
		Outcome:  outcomeOf(res),
		Messages: messagesOf(res),
		Request:  raw,
		Entries:  len(res.Schedule),
		Client:   who.Class(),
		Country:  who.Country,
	}
	if err := h.audit.Record(r.Context(), sub); err != nil {
		h.logger(r).Warnw("audit record failed", "err", err)
	}
}

func outcomeOf(res Result) string {
	switch {
	case !res.Outcome.Valid:
		return metrics.OutcomeInvalid
	case res.Err != nil:
		return metrics.OutcomeUnavailable
	case res.Stale:
		return metrics.OutcomeStale
	}
	return metrics.OutcomeOK
}

// messagesOf returns what the user was told about res.
func messagesOf(res Result) []string {
	switch {
	case !res.Outcome.Valid:
		return append([]string(nil), res.Outcome.Messages...)
	case res.Err != nil:
		return []string{MsgUnavailable}
	}
	return []string{}
}

func (h *Handler) logger(r *http.Request) *zap.SugaredLogger {
	if h.log != nil {
		return h.log
	}
	return logger.FromContext(r.Context())
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger(r).Errorw(what, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
