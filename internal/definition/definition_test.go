package definition

import (
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/yanizio/layoutkit/internal/engine"
	"github.com/yanizio/layoutkit/internal/layout"
	"github.com/yanizio/layoutkit/internal/widget"
)

func TestParse_YAML(t *testing.T) {
	raw := []byte(`
id: t1
name: One
category: project
variables:
  - name: who
    type: string
    label: Who
    defaultValue: team
widgets:
  - id: w1
    type: text
    title: Hi {who}
    props:
      label: "Hello {who}"
      nested:
        list: ["{who}", 3]
    layout: { x: 1, y: 2, width: 3, height: 4 }
    dataSource:
      type: tasks
      query: { owner: "{who}" }
theme:
  primaryColor: red
`)
	tpl, err := Parse(raw, ".yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tpl.ID != "t1" || tpl.Category != layout.CategoryProject {
		t.Fatalf("metadata wrong: %+v", tpl)
	}
	w := tpl.Widgets[0]
	if w.Layout != (layout.Rect{X: 1, Y: 2, Width: 3, Height: 4}) {
		t.Fatalf("layout = %+v", w.Layout)
	}
	if w.DataSource == nil || w.DataSource.Type != layout.SourceTasks || w.DataSource.Query["owner"] != "{who}" {
		t.Fatalf("dataSource = %+v", w.DataSource)
	}
	if tpl.Theme == nil || tpl.Theme.PrimaryColor != "red" {
		t.Fatalf("theme = %+v", tpl.Theme)
	}
	if tpl.Variables[0].DefaultValue != "team" {
		t.Fatalf("default = %#v", tpl.Variables[0].DefaultValue)
	}
}

func TestParse_JSON(t *testing.T) {
	raw := []byte(`{"id":"j","name":"J","category":"task","widgets":[{"id":"w","type":"text","props":{"n":1}}]}`)
	tpl, err := Parse(raw, ".json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tpl.Widgets[0].Props["n"] != 1.0 {
		t.Fatalf("props = %#v", tpl.Widgets[0].Props)
	}
}

func TestParse_MissingID(t *testing.T) {
	if _, err := Parse([]byte("name: nameless\n"), ".yaml"); !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("{"), ".json"); err == nil {
		t.Fatalf("expected JSON error")
	}
	if _, err := Parse([]byte("id: [unterminated"), ".yaml"); err == nil {
		t.Fatalf("expected YAML error")
	}
}

func TestLoadDirs_Precedence(t *testing.T) {
	tpls, err := LoadDirs([]string{
		filepath.Join("testdata", "override"),
		filepath.Join("testdata", "defaults"),
		filepath.Join("testdata", "missing"),
	})
	if err != nil {
		t.Fatalf("LoadDirs: %v", err)
	}

	byID := map[string]*layout.Template{}
	for _, tpl := range tpls {
		byID[tpl.ID] = tpl
	}
	if len(tpls) != 2 {
		t.Fatalf("loaded %d templates, want 2", len(tpls))
	}
	if byID["task-board"].Name != "Site Task Board" {
		t.Fatalf("override lost: %q", byID["task-board"].Name)
	}
	if _, ok := byID["draft"]; !ok {
		t.Fatalf("JSON document not loaded")
	}
}

func TestLoadDirs_NoDirs(t *testing.T) {
	if _, err := LoadDirs(nil); err == nil {
		t.Fatalf("expected error for empty dir list")
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/a.yaml":   {Data: []byte("id: a\nname: A\n")},
		"tpl/b.json":   {Data: []byte(`{"id":"b"}`)},
		"tpl/skip.txt": {Data: []byte("x")},
	}
	tpls, err := LoadFS(fsys, "tpl")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(tpls) != 2 {
		t.Fatalf("loaded %d, want 2", len(tpls))
	}
}

func TestBuiltins_Validate(t *testing.T) {
	tpls, err := Builtins()
	if err != nil {
		t.Fatalf("Builtins: %v", err)
	}
	if len(tpls) < 4 {
		t.Fatalf("only %d builtins", len(tpls))
	}

	kinds := widget.NewRegistry[string]()
	widget.RegisterBuiltins(kinds)
	eng := engine.New(kinds)
	for _, tpl := range tpls {
		if res := eng.Validate(tpl); !res.Valid {
			t.Errorf("builtin %s invalid: %v", tpl.ID, res.Errors)
		}
	}
}

func TestBuiltins_ProcessWithDefaults(t *testing.T) {
	tpls, err := Builtins()
	if err != nil {
		t.Fatalf("Builtins: %v", err)
	}
	kinds := widget.NewRegistry[string]()
	widget.RegisterBuiltins(kinds)
	eng := engine.New(kinds)
	for _, tpl := range tpls {
		_ = eng.Register(tpl)
	}

	out, err := eng.ProcessByID("project-overview", map[string]any{"projectId": "p-42"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	header := out.Widgets[0]
	if header.Title != "Untitled project" || header.DataSource.Query["id"] != "p-42" {
		t.Fatalf("header = %+v", header)
	}
	if got := out.Widgets[2].Props["limit"]; got != "10" {
		t.Fatalf("limit = %#v", got)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	src := &layout.Template{ID: "x", Name: "X", Category: layout.CategoryTask,
		Widgets: []layout.Widget{{ID: "w", Type: "text"}}}
	raw, err := Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Parse(raw, ".yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back.ID != "x" || back.Widgets[0].Type != "text" {
		t.Fatalf("round trip lost data: %+v", back)
	}
}
