// internal/engine/variables.go
//
// Variable completeness and constraint checks.
//
// Context
// -------
// Structural validity (Validate) and variable completeness are separate
// questions.  A template can be perfectly shaped while a caller forgets a
// required value, and Process deliberately renders such a template with
// the token left in place.  CheckVariables answers the second question
// for callers that want to refuse incomplete input before rendering.
//
// Workflow
// --------
//   - Defaults are applied first (when enabled), so a required variable
//     with a default is always satisfied.
//   - Each declared variable is then checked by kind: number range,
//     boolean shape, date format, select membership, and string
//     length/pattern.
//   - Compiled patterns are memoized in an LRU keyed by source text.
//
// Notes
// -----
//   - Supplied names without a declaration are ignored; Process leaves
//     them harmless.
package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yanizio/layoutkit/internal/layout"
)

// DateLayout is the accepted format for date variables.
const DateLayout = "2006-01-02"

// CheckVariables reports every variable in vars (plus defaults) that
// violates its declaration in t.  An empty slice means the map is
// complete and well-formed.
func (e *Engine) CheckVariables(t *layout.Template, vars map[string]any) []string {
	if t == nil {
		return []string{"Template is nil"}
	}
	effective := vars
	if e.applyDefaults {
		effective = withDefaults(t, vars)
	}

	errs := []string{}
	for _, decl := range t.Variables {
		if decl.Name == "" {
			continue // reported by Validate
		}
		val, present := effective[decl.Name]
		if !present || val == nil || val == "" {
			if decl.Required {
				errs = append(errs, fmt.Sprintf("Variable %q is required", decl.Name))
			}
			continue
		}
		if msg := e.checkValue(decl, val); msg != "" {
			errs = append(errs, fmt.Sprintf("Variable %q %s", decl.Name, msg))
		}
	}
	return errs
}

// checkValue returns an empty string when val satisfies decl, otherwise a
// predicate phrase completing "Variable "x" ...".
func (e *Engine) checkValue(decl layout.Variable, val any) string {
	c := decl.Validation

	switch decl.Type {
	case layout.KindNumber:
		n, ok := toFloat(val)
		if !ok {
			return "must be a number"
		}
		if c != nil && c.Min != nil && n < *c.Min {
			return fmt.Sprintf("must be at least %s", stringify(*c.Min))
		}
		if c != nil && c.Max != nil && n > *c.Max {
			return fmt.Sprintf("must be at most %s", stringify(*c.Max))
		}
		return ""

	case layout.KindBoolean:
		switch x := val.(type) {
		case bool:
			return ""
		case string:
			if _, err := strconv.ParseBool(x); err == nil {
				return ""
			}
		}
		return "must be true or false"

	case layout.KindDate:
		s, ok := val.(string)
		if !ok {
			if tm, isTime := val.(time.Time); isTime && !tm.IsZero() {
				return ""
			}
			return "must be a date (YYYY-MM-DD)"
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return "must be a date (YYYY-MM-DD)"
		}
		return ""

	case layout.KindSelect:
		s := stringify(val)
		for _, o := range decl.Options {
			if o == s {
				return ""
			}
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(decl.Options, ", "))

	default: // string and undeclared kinds
		s := stringify(val)
		if c == nil {
			return ""
		}
		n := utf8.RuneCountInString(s)
		if c.MinLength > 0 && n < c.MinLength {
			return fmt.Sprintf("must be at least %d characters", c.MinLength)
		}
		if c.MaxLength > 0 && n > c.MaxLength {
			return fmt.Sprintf("must be at most %d characters", c.MaxLength)
		}
		if c.Pattern != "" {
			re, err := e.pattern(c.Pattern)
			if err != nil {
				return fmt.Sprintf("has an invalid pattern: %v", err)
			}
			if !re.MatchString(s) {
				return "does not match the required format"
			}
		}
		return ""
	}
}

// pattern compiles src once and memoizes the result.
func (e *Engine) pattern(src string) (*regexp.Regexp, error) {
	if v, ok := e.patterns.Get(src); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	e.patterns.Add(src, re)
	return re, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
