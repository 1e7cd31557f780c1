package loan

import (
	"reflect"
	"testing"
)

func validRequest() Request {
	return Request{
		InitialDate:      MustDate("2024-01-01"),
		FinalDate:        MustDate("2024-12-31"),
		FirstPaymentDate: MustDate("2024-02-01"),
		LoanAmount:       Decimal("10000.00"),
		InterestRate:     Decimal("1.5"),
	}
}

func TestValidate_Valid(t *testing.T) {
	out := Validate(validRequest())
	if !out.Valid {
		t.Fatalf("expected valid, got %+v", out)
	}
	if len(out.Messages) != 0 {
		t.Fatalf("expected no messages, got %v", out.Messages)
	}
}

func TestValidate_ZeroAmountAndRateArePresent(t *testing.T) {
	req := validRequest()
	req.LoanAmount = Decimal("0")
	req.InterestRate = Decimal("0")

	if out := Validate(req); !out.Valid {
		t.Fatalf("zero amount/rate must not count as missing: %v", out.Messages)
	}
}

func TestValidate_EachMissingField(t *testing.T) {
	cases := map[string]func(*Request){
		"initialDate":      func(r *Request) { r.InitialDate = nil },
		"finalDate":        func(r *Request) { r.FinalDate = nil },
		"firstPaymentDate": func(r *Request) { r.FirstPaymentDate = nil },
		"loanAmount":       func(r *Request) { r.LoanAmount = nil },
		"interestRate":     func(r *Request) { r.InterestRate = nil },
	}
	for name, drop := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			drop(&req)
			out := Validate(req)
			if out.Valid {
				t.Fatalf("expected invalid")
			}
			if n := count(out.Messages, MsgRequired); n != 1 {
				t.Fatalf("required message count = %d, want 1 (%v)", n, out.Messages)
			}
		})
	}
}

func TestValidate_AllMissing_RequiredOnce(t *testing.T) {
	out := Validate(Request{})
	if out.Valid {
		t.Fatalf("expected invalid")
	}
	want := []string{MsgRequired}
	if !reflect.DeepEqual(out.Messages, want) {
		t.Fatalf("messages = %v, want %v", out.Messages, want)
	}
}

func TestValidate_FinalNotAfterInitial(t *testing.T) {
	for _, final := range []string{"2024-01-01", "2023-12-31"} {
		req := validRequest()
		req.FinalDate = MustDate(final)
		req.LoanAmount = nil // other rules fail too; final-date message must still appear

		out := Validate(req)
		if out.Valid {
			t.Fatalf("final=%s: expected invalid", final)
		}
		if count(out.Messages, MsgFinalDate) != 1 {
			t.Fatalf("final=%s: missing final-date message: %v", final, out.Messages)
		}
	}
}

func TestValidate_FirstPaymentOutOfRange(t *testing.T) {
	for _, first := range []string{"2024-01-01", "2023-06-01", "2024-12-31", "2025-03-01"} {
		req := validRequest()
		req.FirstPaymentDate = MustDate(first)

		out := Validate(req)
		if out.Valid {
			t.Fatalf("first=%s: expected invalid", first)
		}
		if !reflect.DeepEqual(out.Messages, []string{MsgFirstPayment}) {
			t.Fatalf("first=%s: messages = %v", first, out.Messages)
		}
	}
}

func TestValidate_AllRulesCollectedInOrder(t *testing.T) {
	req := Request{
		InitialDate:      MustDate("2024-06-01"),
		FinalDate:        MustDate("2024-01-01"),
		FirstPaymentDate: MustDate("2024-03-01"),
	}
	out := Validate(req)
	want := []string{MsgRequired, MsgFinalDate, MsgFirstPayment}
	if !reflect.DeepEqual(out.Messages, want) {
		t.Fatalf("messages = %v, want %v", out.Messages, want)
	}
	wantRules := []Rule{RuleRequired, RuleFinalDate, RuleFirstPayment}
	if !reflect.DeepEqual(out.Rules, wantRules) {
		t.Fatalf("rules = %v, want %v", out.Rules, wantRules)
	}
}

func TestValidate_MissingInitialStillChecksFinalBound(t *testing.T) {
	req := validRequest()
	req.InitialDate = nil
	req.FirstPaymentDate = MustDate("2025-01-10")

	out := Validate(req)
	want := []string{MsgRequired, MsgFirstPayment}
	if !reflect.DeepEqual(out.Messages, want) {
		t.Fatalf("messages = %v, want %v", out.Messages, want)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	req := Request{InitialDate: MustDate("2024-06-01"), FinalDate: MustDate("2024-01-01")}
	a := Validate(req)
	b := Validate(req)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("outcomes differ: %+v vs %+v", a, b)
	}
}

func count(msgs []string, m string) int {
	n := 0
	for _, s := range msgs {
		if s == m {
			n++
		}
	}
	return n
}
