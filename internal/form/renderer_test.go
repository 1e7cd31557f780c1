package form

import (
	"strings"
	"testing"
	"time"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/notify"
)

func TestRenderPage(t *testing.T) {
	doc, err := RenderPage(DefaultFormDef(), RenderOptions{
		Prefill:   map[string]string{FieldLoanAmount: `R$ 1.000,00"><x`},
		CSRFToken: "tok",
		Toasts: []notify.Toast{{
			ID: "t1", Message: loan.MsgRequired, Kind: "error",
			Duration: 4 * time.Second, Position: "bottom-right",
		}},
		Schedule: loan.Schedule{loan.ScheduleEntry(`{"n":1}`)},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(doc)

	for _, want := range []string{
		`id="fld-initialDate"`,
		`data-prefix="R$ "`,
		`data-scale="1"`,
		`value="R$ 1.000,00&#34;&gt;&lt;x"`,
		`name="csrf_token" value="tok"`,
		`class="toaster toaster-bottom-right"`,
		`data-id="t1" data-duration="4000"`,
		`<li><pre>{&#34;n&#34;:1}</pre></li>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s", want)
		}
	}
	if strings.Contains(out, `"><x`) {
		t.Fatalf("prefill not escaped")
	}
}

func TestPageCSP_HashesInlineBlocks(t *testing.T) {
	if !strings.Contains(PageCSP, inlineHash(styleBody)) || !strings.Contains(PageCSP, inlineHash(scriptBody)) {
		t.Fatalf("csp = %s", PageCSP)
	}
	if strings.Contains(PageCSP, "unsafe-inline") {
		t.Fatalf("csp allows unsafe-inline")
	}
}
