// internal/form/definition.go
//
// Loanform – Forms subsystem: YAML definition loader.
//
// Context
//   The loan form is declared in YAML (forms/loan.yaml, embedded in the
//   binary).  The file names the inputs, their labels, and their formatting
//   hints.  Operators may point `form.definition` at an override file to
//   relabel fields; the override must still declare exactly the five loan
//   inputs, because the controller maps them by name.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef.
//   •  ParseFormDef parses bytes and validates structural rules.
//   •  LoadFormDef reads a file and delegates to ParseFormDef.
//   •  DefaultFormDef returns the embedded definition.
//
//------------------------------------------------------------------------------

package form

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID     string     `yaml:"id"`     // Component-scoped identifier.
	Title  string     `yaml:"title"`  // Display title, optional.
	Submit string     `yaml:"submit"` // Submit button caption.
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control on the form.
type FieldDef struct {
	Name        string `yaml:"name"`        // Submission key.  Required.
	Label       string `yaml:"label"`       // Human-readable label.  Required.
	Type        string `yaml:"type"`        // date, currency, or percent.
	Placeholder string `yaml:"placeholder"` // Optional placeholder text.
	Prefix      string `yaml:"prefix"`      // Shown before numeric values.
	Suffix      string `yaml:"suffix"`      // Shown after numeric values.
	Scale       int    `yaml:"scale"`       // Decimal places for numeric inputs.
}

//go:embed forms/loan.yaml
var defaultYAML []byte

// DefaultFormDef returns the embedded loan form.  It panics if the embedded
// file is malformed, which is a build defect.
func DefaultFormDef() *FormDef {
	fd, err := ParseFormDef(defaultYAML, "forms/loan.yaml")
	if err != nil {
		panic(err)
	}
	return fd
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadFormDef reads one YAML file and returns a validated FormDef.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// ParseFormDef parses raw YAML.  src only labels error messages.
func ParseFormDef(raw []byte, src string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateFormDef(&fd, src); err != nil {
		return nil, err
	}
	if fd.Submit == "" {
		fd.Submit = "Calcular"
	}
	return &fd, nil
}

// Field returns the definition for name.
func (fd *FormDef) Field(name string) (FieldDef, bool) {
	for _, f := range fd.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var fieldTypes = map[string]bool{
	"date":     true,
	"currency": true,
	"percent":  true,
}

// validateFormDef enforces structural rules that cannot be expressed via YAML
// tags alone.
func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", src)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, src); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", src, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	for _, name := range FieldNames {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("form %s: missing field '%s'", src, name)
		}
	}
	if len(seen) != len(FieldNames) {
		return fmt.Errorf("form %s: unexpected extra fields", src)
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", src, f.Name)
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", src, f.Name, f.Type)
	}
	if f.Scale < 0 {
		return fmt.Errorf("form %s: field '%s' scale cannot be negative", src, f.Name)
	}
	return nil
}
