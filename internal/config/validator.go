// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `LoadFrom` calls `validateStruct` right after it unmarshals the merged
// Koanf tree.  Any tag mismatch aborts startup, so the daemon never runs
// with a malformed listen address, an unknown driver, or no log directory.
//
// One cross-field rule cannot be expressed with tags: a DSN carrying a
// `%s` password placeholder needs a password.  It is registered here as a
// struct-level validation.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(func(sl validator.StructLevel) {
		db := sl.Current().Interface().(Database)
		if strings.Contains(db.DSN, "%s") && db.Password == "" {
			sl.ReportError(db.Password, "Password", "password", "required_with_placeholder", "")
		}
	}, Database{})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
