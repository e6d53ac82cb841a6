// internal/engine/engine.go
//
// Template registry and engine.
//
// Context
// -------
// The Engine owns a keyed collection of layout templates and performs the
// three operations callers build on:
//
//   - Process   – deep-clone a template and resolve `{name}` tokens,
//   - ApplyTheme – shallow-merge a partial theme into a copy, and
//   - Validate  – report every structural problem in one pass.
//
// Templates are registered fully formed, at startup or on demand, and are
// never validated on the way in.  Callers register drafts freely and ask
// for validation when they are ready to render.
//
// Workflow
// --------
//  1. Host builds a widget.Registry and passes it to New.
//  2. Host registers templates (definition loader, store, API).
//  3. Renderer asks for a processed copy and walks its widget list.
//
// Notes
// -----
//   - One Engine per process, injected into consumers.  There is no
//     package-level instance.
//   - The registry is guarded by an RWMutex; Process and ApplyTheme never
//     touch it beyond the read needed by ProcessByID.
//   - Oxford commas, two spaces after periods.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/layoutkit/internal/cache"
	"github.com/yanizio/layoutkit/internal/layout"
	"github.com/yanizio/layoutkit/internal/metrics"
)

var (
	// ErrEmptyID is returned when a template without an id is registered.
	ErrEmptyID = errors.New("engine: template id must be non-empty")
	// ErrNotFound is returned by id-based helpers for unknown templates.
	ErrNotFound = errors.New("engine: template not found")
)

// KindSet is the slice of the widget registry the engine needs.
// *widget.Registry[T] satisfies it for any T.
type KindSet interface {
	Has(kind string) bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger injects a sugared logger.  The default is zap.S().
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDefaults toggles default-filling of declared but unsupplied
// variables during Process.  Enabled by default.
func WithDefaults(on bool) Option {
	return func(e *Engine) { e.applyDefaults = on }
}

// Engine is safe for concurrent use.  The zero value is unusable;
// construct with New.
type Engine struct {
	kinds         KindSet
	log           *zap.SugaredLogger
	applyDefaults bool
	patterns      *cache.LRU

	mu    sync.RWMutex
	byID  map[string]*layout.Template
	order []string
}

// New returns an Engine validating widget kinds against kinds.
func New(kinds KindSet, opts ...Option) *Engine {
	if kinds == nil {
		panic("engine: nil KindSet")
	}
	e := &Engine{
		kinds:         kinds,
		log:           zap.S(),
		applyDefaults: true,
		patterns:      cache.New(256),
		byID:          make(map[string]*layout.Template),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

/*──────────────────────────── registry ─────────────────────────────────────*/

// Register inserts or overwrites t by id.  No structural validation is
// performed.  An overwrite keeps the id's original listing position.
func (e *Engine) Register(t *layout.Template) error {
	if t == nil || t.ID == "" {
		return ErrEmptyID
	}

	e.mu.Lock()
	_, existed := e.byID[t.ID]
	e.byID[t.ID] = t
	if !existed {
		e.order = append(e.order, t.ID)
	}
	n := len(e.order)
	e.mu.Unlock()

	metrics.TemplatesRegistered.Set(float64(n))
	e.log.Debugw("template registered", "id", t.ID, "category", t.Category, "overwrite", existed)
	return nil
}

// Unregister removes the template with id.  It reports whether an entry
// existed.
func (e *Engine) Unregister(id string) bool {
	e.mu.Lock()
	_, ok := e.byID[id]
	if ok {
		delete(e.byID, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	n := len(e.order)
	e.mu.Unlock()

	if ok {
		metrics.TemplatesRegistered.Set(float64(n))
		e.log.Debugw("template unregistered", "id", id)
	}
	return ok
}

// Get returns the registered template.  Callers must treat it as
// read-only.
func (e *Engine) Get(id string) (*layout.Template, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.byID[id]
	return t, ok
}

// All returns every registered template in insertion order.
func (e *Engine) All() []*layout.Template {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*layout.Template, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.byID[id])
	}
	return out
}

// ByCategory returns the templates in category c, in insertion order.
func (e *Engine) ByCategory(c layout.Category) []*layout.Template {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*layout.Template
	for _, id := range e.order {
		if t := e.byID[id]; t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

/*──────────────────────────── processing ───────────────────────────────────*/

// Process returns a deep copy of t with every `{name}` token whose name is
// a key of the effective variable map replaced by the value's string form.
// The effective map is vars plus declared defaults for absent names.
// Unknown tokens stay literal.  t is never modified; a nil vars map is
// treated as empty.  Required variables are not enforced here, see
// CheckVariables.
func (e *Engine) Process(t *layout.Template, vars map[string]any) *layout.Template {
	if t == nil {
		panic("engine: Process called with nil template")
	}
	out := t.Clone()
	effective := vars
	if e.applyDefaults {
		effective = withDefaults(t, vars)
	}

	for i := range out.Widgets {
		substituteWidget(&out.Widgets[i], effective)
	}

	metrics.ProcessTotal.Inc()
	return out
}

// ProcessByID looks up id and processes it.
func (e *Engine) ProcessByID(id string, vars map[string]any) (*layout.Template, error) {
	t, ok := e.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.Process(t, vars), nil
}

// ApplyTheme returns a copy of t whose theme is t.Theme shallow-merged
// with overrides.  Non-empty override fields win.  t is not modified.
func (e *Engine) ApplyTheme(t *layout.Template, overrides layout.Theme) *layout.Template {
	if t == nil {
		panic("engine: ApplyTheme called with nil template")
	}
	out := t.Clone()
	var base layout.Theme
	if out.Theme != nil {
		base = *out.Theme
	}
	merged := base.Merge(overrides)
	out.Theme = &merged
	return out
}

// withDefaults returns vars extended with DefaultValue for declared
// variables that vars omits or sets to nil.  vars itself is not modified.
func withDefaults(t *layout.Template, vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars)+len(t.Variables))
	for _, v := range t.Variables {
		if v.Name != "" && v.DefaultValue != nil {
			out[v.Name] = v.DefaultValue
		}
	}
	for k, v := range vars {
		if _, hasDefault := out[k]; hasDefault && v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
