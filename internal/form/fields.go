// internal/form/fields.go
//
// Loanform – form field state.
//
// Context
//   Fields mirrors the five inputs of the loan form.  Each input is set
//   independently from the raw text the user typed; the two numeric inputs
//   accept formatted text (“R$ 10.000,00”, “1,5 %”) and store a parsed
//   decimal.  Candidate assembles the current values into a loan.Request for
//   the controller.
//
// Notes
//   •  A date input left blank clears the field, so it reads as missing.
//   •  A numeric input left blank stores 0, which counts as present.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/numfmt"
)

// Field names, shared by the YAML definition, HTML inputs, and JSON.
const (
	FieldInitialDate      = "initialDate"
	FieldFinalDate        = "finalDate"
	FieldFirstPaymentDate = "firstPaymentDate"
	FieldLoanAmount       = "loanAmount"
	FieldInterestRate     = "interestRate"
)

// FieldNames lists the inputs in display order.
var FieldNames = []string{
	FieldInitialDate,
	FieldFinalDate,
	FieldFirstPaymentDate,
	FieldLoanAmount,
	FieldInterestRate,
}

// FieldError reports a raw value that could not be parsed.
type FieldError struct {
	Name string
	Err  error
}

func (e *FieldError) Error() string { return fmt.Sprintf("field %s: %v", e.Name, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

// Fields holds the current value of every input.  Zero value is an empty
// form.  Safe for concurrent use.
type Fields struct {
	mu  sync.RWMutex
	req loan.Request
}

func (f *Fields) SetInitialDate(raw string) error {
	return f.setDate(FieldInitialDate, raw, func(r *loan.Request, d *loan.Date) { r.InitialDate = d })
}

func (f *Fields) SetFinalDate(raw string) error {
	return f.setDate(FieldFinalDate, raw, func(r *loan.Request, d *loan.Date) { r.FinalDate = d })
}

func (f *Fields) SetFirstPaymentDate(raw string) error {
	return f.setDate(FieldFirstPaymentDate, raw, func(r *loan.Request, d *loan.Date) { r.FirstPaymentDate = d })
}

// SetLoanAmount parses currency text.  Blank text stores 0.
func (f *Fields) SetLoanAmount(raw string) error {
	d, err := numfmt.ParseAmount(raw)
	if err != nil {
		return &FieldError{Name: FieldLoanAmount, Err: err}
	}
	f.setNumber(func(r *loan.Request) { r.LoanAmount = &d })
	return nil
}

// SetInterestRate parses percentage text.  Blank text stores 0.
func (f *Fields) SetInterestRate(raw string) error {
	d, err := numfmt.ParseRate(raw)
	if err != nil {
		return &FieldError{Name: FieldInterestRate, Err: err}
	}
	f.setNumber(func(r *loan.Request) { r.InterestRate = &d })
	return nil
}

// Set dispatches on the field name.  Unknown names are an error.
func (f *Fields) Set(name, raw string) error {
	switch name {
	case FieldInitialDate:
		return f.SetInitialDate(raw)
	case FieldFinalDate:
		return f.SetFinalDate(raw)
	case FieldFirstPaymentDate:
		return f.SetFirstPaymentDate(raw)
	case FieldLoanAmount:
		return f.SetLoanAmount(raw)
	case FieldInterestRate:
		return f.SetInterestRate(raw)
	}
	return &FieldError{Name: name, Err: fmt.Errorf("unknown field")}
}

// Clear marks one field as missing.
func (f *Fields) Clear(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldInitialDate:
		f.req.InitialDate = nil
	case FieldFinalDate:
		f.req.FinalDate = nil
	case FieldFirstPaymentDate:
		f.req.FirstPaymentDate = nil
	case FieldLoanAmount:
		f.req.LoanAmount = nil
	case FieldInterestRate:
		f.req.InterestRate = nil
	}
}

// Load replaces every field with the values of req.
func (f *Fields) Load(req loan.Request) {
	c := req.Clone()
	f.mu.Lock()
	f.req = c
	f.mu.Unlock()
}

// Reset empties the form.
func (f *Fields) Reset() { f.Load(loan.Request{}) }

// Candidate returns a snapshot of the current values.
func (f *Fields) Candidate() loan.Request {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.req.Clone()
}

// Display returns the values formatted for re-rendering the inputs.
func (f *Fields) Display() map[string]string {
	req := f.Candidate()
	out := make(map[string]string, len(FieldNames))
	if req.InitialDate != nil {
		out[FieldInitialDate] = req.InitialDate.String()
	}
	if req.FinalDate != nil {
		out[FieldFinalDate] = req.FinalDate.String()
	}
	if req.FirstPaymentDate != nil {
		out[FieldFirstPaymentDate] = req.FirstPaymentDate.String()
	}
	if req.LoanAmount != nil {
		out[FieldLoanAmount] = numfmt.FormatAmount(*req.LoanAmount)
	}
	if req.InterestRate != nil {
		out[FieldInterestRate] = numfmt.FormatRate(*req.InterestRate)
	}
	return out
}

func (f *Fields) setDate(name, raw string, apply func(*loan.Request, *loan.Date)) error {
	if strings.TrimSpace(raw) == "" {
		f.mu.Lock()
		apply(&f.req, nil)
		f.mu.Unlock()
		return nil
	}
	d, err := loan.ParseDate(raw)
	if err != nil {
		return &FieldError{Name: name, Err: err}
	}
	f.mu.Lock()
	apply(&f.req, &d)
	f.mu.Unlock()
	return nil
}

func (f *Fields) setNumber(apply func(*loan.Request)) {
	f.mu.Lock()
	apply(&f.req)
	f.mu.Unlock()
}
