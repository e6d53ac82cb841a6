package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *Template {
	return &Template{
		ID:       "t1",
		Name:     "Sample",
		Category: CategoryProject,
		Variables: []Variable{
			{Name: "project", Type: KindString, Label: "Project", Options: []string{"a"}},
		},
		Widgets: []Widget{{
			ID:   "w1",
			Type: "stats-card",
			Props: map[string]any{
				"label": "Hello {project}",
				"nested": map[string]any{
					"items": []any{"x", 1.0, true},
				},
			},
			DataSource: &DataSource{Type: SourceTasks, Query: map[string]any{"project": "{project}"}},
		}},
		Layout: Spec{Type: LayoutGrid, Columns: 12},
		Theme:  &Theme{PrimaryColor: "#000", FontFamily: "Inter"},
	}
}

func TestClone_DeepCopy(t *testing.T) {
	orig := sample()
	cp := orig.Clone()

	if diff := cmp.Diff(orig, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	cp.Widgets[0].Props["label"] = "changed"
	cp.Widgets[0].Props["nested"].(map[string]any)["items"].([]any)[0] = "y"
	cp.Widgets[0].DataSource.Query["project"] = "p"
	cp.Theme.PrimaryColor = "#fff"
	cp.Variables[0].Options[0] = "b"

	if orig.Widgets[0].Props["label"] != "Hello {project}" {
		t.Fatalf("props shared with clone")
	}
	if orig.Widgets[0].Props["nested"].(map[string]any)["items"].([]any)[0] != "x" {
		t.Fatalf("nested list shared with clone")
	}
	if orig.Widgets[0].DataSource.Query["project"] != "{project}" {
		t.Fatalf("query shared with clone")
	}
	if orig.Theme.PrimaryColor != "#000" {
		t.Fatalf("theme shared with clone")
	}
	if orig.Variables[0].Options[0] != "a" {
		t.Fatalf("options shared with clone")
	}
}

func TestClone_Nil(t *testing.T) {
	var tpl *Template
	if tpl.Clone() != nil {
		t.Fatalf("nil clone should be nil")
	}
}

func TestThemeMerge(t *testing.T) {
	base := Theme{PrimaryColor: "blue", TextColor: "black", FontFamily: "Inter"}
	got := base.Merge(Theme{PrimaryColor: "red", BorderRadius: "4px"})
	want := Theme{PrimaryColor: "red", TextColor: "black", FontFamily: "Inter", BorderRadius: "4px"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base.PrimaryColor != "blue" {
		t.Fatalf("receiver mutated")
	}
}

func TestEnumValidity(t *testing.T) {
	if !CategoryReport.Valid() || Category("wiki").Valid() {
		t.Fatalf("category validity wrong")
	}
	if !KindDate.Valid() || VarKind("color").Valid() {
		t.Fatalf("kind validity wrong")
	}
	if !SourceStatic.Valid() || SourceType("sql").Valid() {
		t.Fatalf("source validity wrong")
	}
}

func TestTemplateVariableLookup(t *testing.T) {
	tpl := sample()
	if v, ok := tpl.Variable("project"); !ok || v.Label != "Project" {
		t.Fatalf("lookup failed: %+v %v", v, ok)
	}
	if _, ok := tpl.Variable("missing"); ok {
		t.Fatalf("unexpected hit")
	}
}
