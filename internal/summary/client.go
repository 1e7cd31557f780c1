// internal/summary/client.go
//
// Loanform – summary service client.
//
// Context
//   Schedule computation lives in a separate service.  Client is the port the
//   form controller depends on; HTTPClient is the production adapter that
//   POSTs the five loan parameters as JSON and decodes an array of opaque
//   schedule entries.  The request shape mirrors the webhook action the forms
//   subsystem always used: JSON body, explicit Content-Type, optional extra
//   headers.
//
// Notes
//   •  No retries.  A failed call is reported once and the user resubmits.
//   •  Every failure wraps ErrUnavailable so callers need a single check.
//
//------------------------------------------------------------------------------

package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/metrics"
)

// ErrUnavailable marks any failure to obtain a schedule.
var ErrUnavailable = errors.New("summary service unavailable")

// Client converts a validated request into a schedule.
type Client interface {
	Summarize(ctx context.Context, req loan.Request) (loan.Schedule, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(context.Context, loan.Request) (loan.Schedule, error)

// Summarize implements Client.
func (f ClientFunc) Summarize(ctx context.Context, req loan.Request) (loan.Schedule, error) {
	return f(ctx, req)
}

// HTTPOptions configures HTTPClient.
type HTTPOptions struct {
	Endpoint string        // full URL, e.g. http://calc:8081/loan/summary
	Token    string        // optional bearer token
	Timeout  time.Duration // zero means no client-side timeout
	// MaxBody caps the decoded response size.  Zero means 8 MiB.
	MaxBody int64
}

// HTTPClient calls the summary service over HTTP.
type HTTPClient struct {
	opts HTTPOptions
	hc   *http.Client
}

// NewHTTPClient returns an HTTPClient.  hc may be nil.
func NewHTTPClient(opts HTTPOptions, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = 8 << 20
	}
	return &HTTPClient{opts: opts, hc: hc}
}

// wireRequest is the JSON body sent to the service.
type wireRequest struct {
	InitialDate      string      `json:"initialDate"`
	FinalDate        string      `json:"finalDate"`
	FirstPaymentDate string      `json:"firstPaymentDate"`
	LoanAmount       json.Number `json:"loanAmount"`
	InterestRate     json.Number `json:"interestRate"`
}

// Encode returns the canonical wire body for req.  Callers must only pass
// validated requests; missing fields are an error.
func Encode(req loan.Request) ([]byte, error) {
	if req.InitialDate == nil || req.FinalDate == nil || req.FirstPaymentDate == nil ||
		req.LoanAmount == nil || req.InterestRate == nil {
		return nil, errors.New("encode: incomplete loan request")
	}
	return json.Marshal(wireRequest{
		InitialDate:      req.InitialDate.String(),
		FinalDate:        req.FinalDate.String(),
		FirstPaymentDate: req.FirstPaymentDate.String(),
		LoanAmount:       json.Number(req.LoanAmount.String()),
		InterestRate:     json.Number(req.InterestRate.String()),
	})
}

// Summarize implements Client.
func (c *HTTPClient) Summarize(ctx context.Context, req loan.Request) (loan.Schedule, error) {
	body, err := Encode(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	if c.opts.Token != "" {
		hreq.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	start := time.Now()
	resp, err := c.hc.Do(hreq)
	metrics.SummaryRequestSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var sched loan.Schedule
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.opts.MaxBody)).Decode(&sched); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if sched == nil {
		sched = loan.Schedule{}
	}
	return sched, nil
}
