// internal/layout/model.go
//
// Layout template data model.
//
// Context
// -------
// A **Template** is a named, versioned, parameterized description of a
// widget layout.  It aggregates three things:
//
//   - metadata (id, name, category, version, author, timestamps),
//   - an ordered list of Variable declarations, the customization points
//     a caller may fill through `{name}` tokens, and
//   - an ordered list of Widget descriptors plus a layout/theme envelope.
//
// Structs mirror the document schema one to one so the same types decode
// from YAML files, JSON request bodies, and stored JSON rows.  Field names
// on the wire are camelCase in every format.
//
// Notes
// -----
//   - Templates are immutable once registered.  Anything that needs a
//     modified copy calls Clone first.
//   - Widget x/y/width/height are opaque hints, never computed here.
//   - Oxford commas, two spaces after periods.
package layout

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

//
// Enumerations
//

// Category groups templates for listing screens.
type Category string

const (
	CategoryProject   Category = "project"
	CategoryTask      Category = "task"
	CategoryDashboard Category = "dashboard"
	CategoryReport    Category = "report"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProject, CategoryTask, CategoryDashboard, CategoryReport:
		return true
	}
	return false
}

// VarKind is the declared value type of a Variable.  It is informational;
// substitution always renders values to strings.
type VarKind string

const (
	KindString  VarKind = "string"
	KindNumber  VarKind = "number"
	KindBoolean VarKind = "boolean"
	KindSelect  VarKind = "select"
	KindDate    VarKind = "date"
)

// Valid reports whether k is one of the known variable kinds.
func (k VarKind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindSelect, KindDate:
		return true
	}
	return false
}

// SourceType names the record family a widget's DataSource pulls from.
type SourceType string

const (
	SourceTasks    SourceType = "tasks"
	SourceProjects SourceType = "projects"
	SourceVersions SourceType = "versions"
	SourceStatic   SourceType = "static"
)

// Valid reports whether s is one of the known data source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceTasks, SourceProjects, SourceVersions, SourceStatic:
		return true
	}
	return false
}

// LayoutType selects the container strategy the renderer applies.
type LayoutType string

const (
	LayoutGrid     LayoutType = "grid"
	LayoutFlex     LayoutType = "flex"
	LayoutAbsolute LayoutType = "absolute"
)

//
// Variable descriptor
//

// Constraints carries per-variable validation hints.  Zero or nil values
// mean "unset".
type Constraints struct {
	Pattern   string   `json:"pattern,omitempty"   yaml:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"       yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"       yaml:"max,omitempty"`
	MinLength int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// Variable declares one customization point of a Template.
type Variable struct {
	Name         string       `json:"name"                   yaml:"name"`
	Type         VarKind      `json:"type"                   yaml:"type"`
	Label        string       `json:"label"                  yaml:"label"`
	Description  string       `json:"description,omitempty"  yaml:"description,omitempty"`
	Required     bool         `json:"required"               yaml:"required"`
	DefaultValue any          `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []string     `json:"options,omitempty"      yaml:"options,omitempty"`
	Validation   *Constraints `json:"validation,omitempty"   yaml:"validation,omitempty"`
}

//
// Widget descriptor
//

// Rect is the placement hint passed through to the renderer untouched.
type Rect struct {
	X      float64 `json:"x"      yaml:"x"`
	Y      float64 `json:"y"      yaml:"y"`
	Width  float64 `json:"width"  yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// DataSource binds a widget to records served by the data layer.  The
// engine substitutes tokens inside Query and otherwise leaves it alone.
type DataSource struct {
	Type      SourceType     `json:"type"                yaml:"type"`
	Query     map[string]any `json:"query,omitempty"     yaml:"query,omitempty"`
	Transform string         `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// Widget is one node of a Template's widget list.
type Widget struct {
	ID             string         `json:"id"                       yaml:"id"`
	Type           string         `json:"type"                     yaml:"type"`
	Title          string         `json:"title,omitempty"          yaml:"title,omitempty"`
	Description    string         `json:"description,omitempty"    yaml:"description,omitempty"`
	Props          map[string]any `json:"props,omitempty"          yaml:"props,omitempty"`
	Layout         Rect           `json:"layout"                   yaml:"layout"`
	DataSource     *DataSource    `json:"dataSource,omitempty"     yaml:"dataSource,omitempty"`
	Styling        map[string]any `json:"styling,omitempty"        yaml:"styling,omitempty"`
	Visibility     map[string]any `json:"visibility,omitempty"     yaml:"visibility,omitempty"`
	ComponentProps map[string]any `json:"componentProps,omitempty" yaml:"componentProps,omitempty"`
	Documentation  map[string]any `json:"documentation,omitempty"  yaml:"documentation,omitempty"`
}

//
// Template envelope
//

// Spec is the container layout envelope.
type Spec struct {
	Type       LayoutType `json:"type"                 yaml:"type"`
	Columns    int        `json:"columns,omitempty"    yaml:"columns,omitempty"`
	Gap        int        `json:"gap,omitempty"        yaml:"gap,omitempty"`
	Padding    int        `json:"padding,omitempty"    yaml:"padding,omitempty"`
	Responsive bool       `json:"responsive,omitempty" yaml:"responsive,omitempty"`
}

// Theme holds presentation tokens.  An empty field means "not set".
type Theme struct {
	PrimaryColor    string `json:"primaryColor,omitempty"    yaml:"primaryColor,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty"  yaml:"secondaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"       yaml:"textColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"      yaml:"fontFamily,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"    yaml:"borderRadius,omitempty"`
}

// Merge returns the shallow merge of t and o.  Non-empty fields of o win;
// the receiver is not modified.
func (t Theme) Merge(o Theme) Theme {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Theme{
		PrimaryColor:    pick(t.PrimaryColor, o.PrimaryColor),
		SecondaryColor:  pick(t.SecondaryColor, o.SecondaryColor),
		BackgroundColor: pick(t.BackgroundColor, o.BackgroundColor),
		TextColor:       pick(t.TextColor, o.TextColor),
		FontFamily:      pick(t.FontFamily, o.FontFamily),
		BorderRadius:    pick(t.BorderRadius, o.BorderRadius),
	}
}

// Template is the aggregate handed to the engine.
type Template struct {
	ID          string         `json:"id"                 yaml:"id"`
	Name        string         `json:"name"               yaml:"name"`
	Description string         `json:"description"        yaml:"description"`
	Category    Category       `json:"category"           yaml:"category"`
	Version     string         `json:"version"            yaml:"version"`
	Author      string         `json:"author"             yaml:"author"`
	CreatedAt   string         `json:"createdAt"          yaml:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"          yaml:"updatedAt"`
	Variables   []Variable     `json:"variables"          yaml:"variables"`
	Widgets     []Widget       `json:"widgets"            yaml:"widgets"`
	Layout      Spec           `json:"layout"             yaml:"layout"`
	Theme       *Theme         `json:"theme,omitempty"    yaml:"theme,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a deep copy of t, nested maps and slices included.  It
// panics only if t carries a value that cannot be copied (for example a
// channel smuggled into Props), which is a programmer error.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	cp, err := copystructure.Copy(t)
	if err != nil {
		panic(fmt.Sprintf("layout: clone template %q: %v", t.ID, err))
	}
	return cp.(*Template)
}

// Variable returns the declaration named name, if any.
func (t *Template) Variable(name string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

//
// Validation result
//

// Result is the outcome of a structural validation pass.  Errors holds
// every problem found, in discovery order.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
