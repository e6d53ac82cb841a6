// internal/engine/substitute.go
//
// Token substitution over widget descriptors.
//
// Context
// -------
// Every string reachable from a widget's substitutable fields is scanned
// for `{identifier}` tokens.  A token whose identifier is a key of the
// variable map is replaced by the value's string form; any other token is
// left exactly as written, so a half-filled template renders visibly
// instead of failing.
//
// The walker treats widget payloads as JSON values: strings are
// substituted, numbers, booleans, and nil pass through, lists and maps
// are walked recursively.  Callers hand it a cloned tree, so the walk
// rewrites in place.
package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yanizio/layoutkit/internal/layout"
)

// tokenRE matches `{identifier}` where identifier is [A-Za-z0-9_]+.
var tokenRE = regexp.MustCompile(`\{(\w+)\}`)

// substituteWidget rewrites every substitutable field of w in place.
func substituteWidget(w *layout.Widget, vars map[string]any) {
	w.Title = substituteString(w.Title, vars)
	w.Description = substituteString(w.Description, vars)
	w.Props = substituteMap(w.Props, vars)
	w.Styling = substituteMap(w.Styling, vars)
	w.Visibility = substituteMap(w.Visibility, vars)
	w.ComponentProps = substituteMap(w.ComponentProps, vars)
	w.Documentation = substituteMap(w.Documentation, vars)
	if w.DataSource != nil {
		w.DataSource.Query = substituteMap(w.DataSource.Query, vars)
	}
}

// substituteString resolves the tokens of s against vars.
func substituteString(s string, vars map[string]any) string {
	if len(vars) == 0 || !strings.Contains(s, "{") {
		return s
	}
	return tokenRE.ReplaceAllStringFunc(s, func(tok string) string {
		name := tok[1 : len(tok)-1]
		v, ok := vars[name]
		if !ok {
			return tok
		}
		return stringify(v)
	})
}

// substituteValue walks one JSON-shaped value.
func substituteValue(v any, vars map[string]any) any {
	switch x := v.(type) {
	case string:
		return substituteString(x, vars)
	case map[string]any:
		return substituteMap(x, vars)
	case []any:
		for i := range x {
			x[i] = substituteValue(x[i], vars)
		}
		return x
	case []string:
		for i := range x {
			x[i] = substituteString(x[i], vars)
		}
		return x
	case []map[string]any:
		for i := range x {
			x[i] = substituteMap(x[i], vars)
		}
		return x
	default:
		return v
	}
}

func substituteMap(m map[string]any, vars map[string]any) map[string]any {
	for k, v := range m {
		m[k] = substituteValue(v, vars)
	}
	return m
}

// stringify renders a variable value the way it should appear inside a
// string: integers without a fraction, floats in shortest form, nil as
// "null", lists comma-joined, and maps as compact JSON.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e == nil {
				continue // nil elements render empty inside a list
			}
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	case map[string]any:
		raw, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(raw)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
