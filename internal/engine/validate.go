// internal/engine/validate.go
//
// Structural validation of layout templates.
//
// Context
// -------
// Validate enforces the rules a renderer relies on: identity fields are
// present, the widget list is non-empty, every widget names a registered
// kind, and variable declarations are complete and unique.  Templates are
// usually edited interactively, so every problem is collected in one pass
// instead of stopping at the first.
//
// Messages are plain sentences addressed to the template author.  Widget
// and variable problems carry the zero-based index of the offending entry.
package engine

import (
	"fmt"

	"github.com/yanizio/layoutkit/internal/layout"
	"github.com/yanizio/layoutkit/internal/metrics"
)

// Validate checks t and returns every structural error found.  It never
// fails for malformed data; problems are reported in Result.Errors.
func (e *Engine) Validate(t *layout.Template) layout.Result {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if t == nil {
		add("Template is nil")
		return finish(errs)
	}

	// -------------------------------------------------------------------------
	// Template-level fields
	// -------------------------------------------------------------------------
	if t.ID == "" {
		add("Template ID is required")
	}
	if t.Name == "" {
		add("Template name is required")
	}
	switch {
	case t.Category == "":
		add("Template category is required")
	case !t.Category.Valid():
		add("Template category %q is not recognized", t.Category)
	}

	// -------------------------------------------------------------------------
	// Widgets
	// -------------------------------------------------------------------------
	if len(t.Widgets) == 0 {
		add("Template must have at least one widget")
	}

	widgetIDs := make(map[string]int, len(t.Widgets))
	for i, w := range t.Widgets {
		if w.ID == "" {
			add("Widget at index %d is missing ID", i)
		} else if first, dup := widgetIDs[w.ID]; dup {
			add("Widget at index %d duplicates ID %q of widget at index %d", i, w.ID, first)
		} else {
			widgetIDs[w.ID] = i
		}

		switch {
		case w.Type == "":
			add("Widget at index %d is missing type", i)
		case !e.kinds.Has(w.Type):
			add("Widget at index %d has unknown type: %s", i, w.Type)
		}

		if w.DataSource != nil && !w.DataSource.Type.Valid() {
			add("Widget at index %d has unknown data source type: %q", i, w.DataSource.Type)
		}
	}

	// -------------------------------------------------------------------------
	// Variables
	// -------------------------------------------------------------------------
	varNames := make(map[string]int, len(t.Variables))
	for i, v := range t.Variables {
		if v.Name == "" {
			add("Variable at index %d is missing name", i)
		} else if first, dup := varNames[v.Name]; dup {
			add("Variable at index %d duplicates name %q of variable at index %d", i, v.Name, first)
		} else {
			varNames[v.Name] = i
		}

		switch {
		case v.Type == "":
			add("Variable at index %d is missing type", i)
		case !v.Type.Valid():
			add("Variable at index %d has unknown type: %s", i, v.Type)
		case v.Type == layout.KindSelect && len(v.Options) == 0:
			add("Variable at index %d is a select without options", i)
		}

		if v.Label == "" {
			add("Variable at index %d is missing label", i)
		}
	}

	return finish(errs)
}

func finish(errs []string) layout.Result {
	metrics.ValidateTotal.Inc()
	if len(errs) > 0 {
		metrics.ValidateFailuresTotal.Inc()
	}
	if errs == nil {
		errs = []string{}
	}
	return layout.Result{Valid: len(errs) == 0, Errors: errs}
}
