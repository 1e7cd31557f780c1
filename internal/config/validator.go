// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` right after unmarshalling the merged Koanf
// tree.  Any failure aborts startup so the binary never runs with a
// malformed configuration.  Errors are flattened to one line per field,
// using the koanf key path, so operators can grep their YAML.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

//
// public API
//

// validateStruct returns nil or an error naming every bad field.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.http.listen_addr"; drop the root.
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		parts = append(parts, fmt.Sprintf("%s: failed %q", key, fe.Tag()))
	}
	return fmt.Errorf("config invalid: %s", strings.Join(parts, "; "))
}
