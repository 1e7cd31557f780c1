// internal/form/renderer.go
//
// Loanform – Forms subsystem: HTML renderer.
//
// Context
//   Given the parsed FormDef this file converts the definition into plain,
//   accessible HTML.  The page holds the five inputs, a CSRF token, pending
//   toasts, and the latest schedule.  Schedule entries are opaque, so each
//   one is shown as its escaped JSON text.
//
// Workflow
//   •  RenderPage writes the document shell, then RenderForm, then the toast
//      region, then the schedule.
//   •  Each input gets id="fld-{name}" and is wrapped in
//      <div class="form-field">.  Numeric inputs are text inputs carrying
//      data-prefix / data-suffix / data-scale hints for client formatting.
//   •  Toasts carry data-duration so the page script can hide them; clicking
//      a toast dismisses it via DELETE /api/v1/toasts/{id}.
//
// Style
//   Output HTML is deliberately plain so deployments can restyle it.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"strconv"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/notify"
)

// RenderOptions bundles the dynamic parts of a page.
type RenderOptions struct {
	// Prefill provides initial field values keyed by field name.
	Prefill   map[string]string
	CSRFToken string
	Toasts    []notify.Toast
	Schedule  loan.Schedule
}

// RenderPage returns a complete HTML document.
func RenderPage(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	var buf bytes.Buffer
	buf.WriteString("<!doctype html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString(`<title>` + html.EscapeString(fd.Title) + `</title>` + "\n")
	buf.WriteString(pageStyle)
	buf.WriteString("</head>\n<body>\n")

	formHTML, err := RenderForm(fd, opts)
	if err != nil {
		return "", err
	}
	buf.WriteString(string(formHTML))
	writeSchedule(&buf, opts.Schedule)
	writeToasts(&buf, opts.Toasts)

	buf.WriteString(pageScript)
	buf.WriteString("</body>\n</html>\n")
	return template.HTML(buf.String()), nil
}

// RenderForm returns the <form> markup only.
func RenderForm(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	var buf bytes.Buffer
	buf.WriteString(`<form class="loan-form" method="post" action="/">` + "\n")
	if fd.Title != "" {
		buf.WriteString(`<h1>` + html.EscapeString(fd.Title) + `</h1>` + "\n")
	}

	for _, f := range fd.Fields {
		if err := writeField(&buf, &f, opts.Prefill); err != nil {
			return "", err
		}
	}

	// Hidden meta inputs.
	buf.WriteString(fmt.Sprintf(`<input type="hidden" name="csrf_token" value="%s">`+"\n", html.EscapeString(opts.CSRFToken)))
	buf.WriteString(`<div class="button-container"><button type="submit">` + html.EscapeString(fd.Submit) + `</button></div>` + "\n")
	buf.WriteString(`</form>` + "\n")
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf.
func writeField(buf *bytes.Buffer, f *FieldDef, prefill map[string]string) error {
	val := prefill[f.Name]

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="fld-` + html.EscapeString(f.Name) + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	idAttr := `id="fld-` + html.EscapeString(f.Name) + `"`
	nameAttr := `name="` + html.EscapeString(f.Name) + `"`

	switch f.Type {
	case "date":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="date"`)

	case "currency", "percent":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="text" inputmode="decimal"`)
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		if f.Prefix != "" {
			buf.WriteString(` data-prefix="` + html.EscapeString(f.Prefix) + `"`)
		}
		if f.Suffix != "" {
			buf.WriteString(` data-suffix="` + html.EscapeString(f.Suffix) + `"`)
		}
		buf.WriteString(` data-scale="` + strconv.Itoa(f.Scale) + `"`)

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}

	if val != "" {
		buf.WriteString(` value="` + html.EscapeString(val) + `"`)
	}
	buf.WriteString(`>` + "\n")
	buf.WriteString(`</div>` + "\n")
	return nil
}

func writeSchedule(buf *bytes.Buffer, sched loan.Schedule) {
	buf.WriteString(`<section class="summary" aria-live="polite">` + "\n")
	if len(sched) == 0 {
		buf.WriteString(`</section>` + "\n")
		return
	}
	buf.WriteString(`<ol>` + "\n")
	for _, e := range sched {
		buf.WriteString(`<li><pre>` + html.EscapeString(string(e)) + `</pre></li>` + "\n")
	}
	buf.WriteString(`</ol>` + "\n")
	buf.WriteString(`</section>` + "\n")
}

func writeToasts(buf *bytes.Buffer, toasts []notify.Toast) {
	pos := notify.DefaultPosition
	if len(toasts) > 0 && toasts[0].Position != "" {
		pos = toasts[0].Position
	}
	buf.WriteString(`<div class="toaster toaster-` + html.EscapeString(pos) + `" role="status">` + "\n")
	for _, t := range toasts {
		buf.WriteString(fmt.Sprintf(
			`<div class="toast toast-%s" data-id="%s" data-duration="%d">%s</div>`+"\n",
			html.EscapeString(t.Kind), html.EscapeString(t.ID), t.DurationMillis(), html.EscapeString(t.Message),
		))
	}
	buf.WriteString(`</div>` + "\n")
}

const styleBody = `
.loan-form{display:flex;flex-direction:row;flex-wrap:wrap;margin:0 30px 30px 30px}
.form-field{display:flex;flex-direction:column;padding:0 1rem}
.toaster{position:fixed;display:flex;flex-direction:column;gap:.5rem}
.toaster-bottom-right{right:45px;bottom:1rem}
.toaster-top-right{right:45px;top:1rem}
.toast{color:black;border:2px solid black;background:white;padding:.5rem 1rem;cursor:pointer}
`

const scriptBody = `
document.querySelectorAll('.toast').forEach(function (el) {
  var drop = function () {
    el.remove();
    fetch('/api/v1/toasts/' + encodeURIComponent(el.dataset.id), {method: 'DELETE'});
  };
  el.addEventListener('click', drop);
  setTimeout(function () { el.remove(); }, parseInt(el.dataset.duration, 10));
});
`

var (
	pageStyle  = "<style>" + styleBody + "</style>\n"
	pageScript = "<script>" + scriptBody + "</script>\n"
)

// PageCSP is the Content-Security-Policy for RenderPage output.  The inline
// style and script blocks are admitted by hash only.
var PageCSP = "default-src 'self'; style-src 'self' " + inlineHash(styleBody) +
	"; script-src 'self' " + inlineHash(scriptBody) +
	"; object-src 'none'; base-uri 'self'; frame-ancestors 'none'"

func inlineHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return "'sha256-" + base64.StdEncoding.EncodeToString(sum[:]) + "'"
}
