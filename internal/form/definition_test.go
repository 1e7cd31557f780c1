package form

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultFormDef(t *testing.T) {
	fd := DefaultFormDef()
	if fd.Submit != "Calcular" {
		t.Fatalf("submit = %q", fd.Submit)
	}
	for _, name := range FieldNames {
		if _, ok := fd.Field(name); !ok {
			t.Fatalf("field %s missing", name)
		}
	}
	amt, _ := fd.Field(FieldLoanAmount)
	if amt.Prefix != "R$ " || amt.Scale != 2 {
		t.Fatalf("loanAmount = %+v", amt)
	}
}

func TestParseFormDef_Errors(t *testing.T) {
	base := DefaultFormDef()

	tests := map[string]string{
		"no id":     "fields:\n  - {name: a, label: A, type: date}\n",
		"no fields": "id: x\n",
		"bad type":  "id: x\nfields:\n  - {name: initialDate, label: A, type: color}\n",
		"dup":       "id: x\nfields:\n  - {name: initialDate, label: A, type: date}\n  - {name: initialDate, label: B, type: date}\n",
		"missing":   "id: x\nfields:\n  - {name: initialDate, label: A, type: date}\n",
		"not yaml":  "id: [",
	}
	for name, raw := range tests {
		if _, err := ParseFormDef([]byte(raw), name); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	var b strings.Builder
	b.WriteString("id: relabel\nfields:\n")
	for _, f := range base.Fields {
		b.WriteString("  - {name: " + f.Name + ", label: X" + f.Name + ", type: " + f.Type + "}\n")
	}
	fd, err := ParseFormDef([]byte(b.String()), "relabel")
	if err != nil {
		t.Fatalf("relabel: %v", err)
	}
	if f, _ := fd.Field(FieldFinalDate); f.Label != "X"+FieldFinalDate {
		t.Fatalf("label = %q", f.Label)
	}
}

func TestLoadFormDef_MissingFile(t *testing.T) {
	_, err := LoadFormDef(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
