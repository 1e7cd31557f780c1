// internal/loan/request.go
//
// Loanform – loan parameter model.
//
// Context
//   A Request is the five-field parameter set the form collects and the
//   summary service turns into a schedule.  Every field is a pointer so the
//   model can tell “never supplied” apart from a legitimate zero amount or
//   rate.  Schedule entries are produced elsewhere and stay opaque here.
//
//------------------------------------------------------------------------------

package loan

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Request holds the loan parameters.  Nil fields are missing.
type Request struct {
	InitialDate      *Date            `json:"initialDate"      validate:"required"`
	FinalDate        *Date            `json:"finalDate"        validate:"required"`
	FirstPaymentDate *Date            `json:"firstPaymentDate" validate:"required"`
	LoanAmount       *decimal.Decimal `json:"loanAmount"       validate:"required"`
	InterestRate     *decimal.Decimal `json:"interestRate"     validate:"required"`
}

// ScheduleEntry is one row of a computed amortization schedule.  The bytes are
// whatever the summary service returned; this package never looks inside.
type ScheduleEntry = json.RawMessage

// Schedule is an ordered sequence of entries.
type Schedule []ScheduleEntry

// Clone returns a copy that shares no backing arrays with s.  A nil receiver
// yields an empty, non-nil schedule.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for i, e := range s {
		out[i] = append(ScheduleEntry(nil), e...)
	}
	return out
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	out := Request{}
	if r.InitialDate != nil {
		d := *r.InitialDate
		out.InitialDate = &d
	}
	if r.FinalDate != nil {
		d := *r.FinalDate
		out.FinalDate = &d
	}
	if r.FirstPaymentDate != nil {
		d := *r.FirstPaymentDate
		out.FirstPaymentDate = &d
	}
	if r.LoanAmount != nil {
		v := *r.LoanAmount
		out.LoanAmount = &v
	}
	if r.InterestRate != nil {
		v := *r.InterestRate
		out.InterestRate = &v
	}
	return out
}

// Decimal is a small helper for building requests in code and tests.
func Decimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
