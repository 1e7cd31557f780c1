package loan

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate_IgnoresTimeOfDay(t *testing.T) {
	a, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := ParseDate("2024-03-10T23:59:00-03:00")
	if err != nil {
		t.Fatalf("parse rfc3339: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("%s != %s", a, b)
	}
}

func TestParseDate_Bad(t *testing.T) {
	for _, s := range []string{"", "10/03/2024", "2024-13-01"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrBadDate) {
			t.Fatalf("%q: err = %v, want ErrBadDate", s, err)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	var req Request
	body := `{"initialDate":"2024-01-01","finalDate":null,"loanAmount":"10000.50","interestRate":1.5}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.InitialDate == nil || *req.InitialDate != NewDate(2024, time.January, 1) {
		t.Fatalf("initialDate = %v", req.InitialDate)
	}
	if req.FinalDate != nil || req.FirstPaymentDate != nil {
		t.Fatalf("null/absent dates must stay nil")
	}
	if req.LoanAmount.String() != "10000.5" || req.InterestRate.String() != "1.5" {
		t.Fatalf("numbers = %v %v", req.LoanAmount, req.InterestRate)
	}

	out, err := json.Marshal(req.InitialDate)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-01-01"` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestRequest_CloneIsDeep(t *testing.T) {
	req := validRequest()
	c := req.Clone()
	*c.InitialDate = NewDate(1999, time.January, 1)
	if req.InitialDate.String() != "2024-01-01" {
		t.Fatalf("clone shares date pointer")
	}
}
