// internal/loan/validate.go
//
// Loanform – request validation.
//
// Context
//   Validate is a pure function: it inspects a Request and returns an Outcome
//   listing every failing rule and its user-facing message.  It never talks to
//   the notification sink and keeps no state between calls, so the caller
//   decides how and when messages reach the user.
//
// Workflow
//   •  Required check via go-playground/validator “required” tags.  Any number
//      of missing fields yields the required message once.
//   •  Final date must be strictly after the initial date.
//   •  First payment must fall strictly between the initial and final dates.
//   •  Date rules only run when the dates they compare are present.
//
//------------------------------------------------------------------------------

package loan

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// User-facing messages.
const (
	MsgRequired     = "Todos os campos são obrigatórios!"
	MsgFinalDate    = "Data final deve ser após a data inicial"
	MsgFirstPayment = "Primeiro pagamento deve ser após a data inicial e antes da data final"
)

// Rule names a validation rule.
type Rule string

const (
	RuleRequired     Rule = "required"
	RuleFinalDate    Rule = "final_date"
	RuleFirstPayment Rule = "first_payment"
)

// Message returns the user-facing text for r.
func (r Rule) Message() string {
	switch r {
	case RuleRequired:
		return MsgRequired
	case RuleFinalDate:
		return MsgFinalDate
	case RuleFirstPayment:
		return MsgFirstPayment
	}
	return ""
}

// Outcome is the result of Validate.  Rules and Messages are parallel slices
// in evaluation order.
type Outcome struct {
	Valid    bool
	Rules    []Rule
	Messages []string
}

func (o *Outcome) fail(r Rule) {
	o.Valid = false
	o.Rules = append(o.Rules, r)
	o.Messages = append(o.Messages, r.Message())
}

var v = validator.New()

// Validate evaluates every rule against req and collects all failures.
func Validate(req Request) Outcome {
	out := Outcome{Valid: true}

	if missing(req) {
		out.fail(RuleRequired)
	}

	if req.InitialDate != nil && req.FinalDate != nil {
		if !req.FinalDate.After(*req.InitialDate) {
			out.fail(RuleFinalDate)
		}
	}

	if req.FirstPaymentDate != nil && (req.InitialDate != nil || req.FinalDate != nil) {
		first := *req.FirstPaymentDate
		early := req.InitialDate != nil && !first.After(*req.InitialDate)
		late := req.FinalDate != nil && !first.Before(*req.FinalDate)
		if early || late {
			out.fail(RuleFirstPayment)
		}
	}

	return out
}

// missing reports whether any required field is absent.
func missing(req Request) bool {
	err := v.Struct(req)
	if err == nil {
		return false
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return len(verrs) > 0
	}
	// InvalidValidationError cannot happen for a struct value.
	return true
}
