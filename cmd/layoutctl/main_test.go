package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/layoutkit/internal/layout"
)

const boardYAML = `
id: board
name: Board
category: task
variables:
  - name: projectName
    type: string
    label: Project
    required: true
  - name: limit
    type: number
    label: Limit
    validation:
      max: 50
widgets:
  - id: w1
    type: task-board
    title: "{projectName} board"
    props:
      limit: "{limit}"
theme:
  primaryColor: "#000000"
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "board.yaml", boardYAML)
	bad := writeFile(t, "bad.yaml", "id: bad\nname: Bad\ncategory: task\nwidgets:\n  - id: a\n    type: gantt\n")

	out, _, err := run(t, "validate", good)
	if err != nil || !strings.Contains(out, "ok   "+good+" (board)") {
		t.Fatalf("good file: out=%q err=%v", out, err)
	}

	out, _, err = run(t, "validate", good, bad)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("err = %v, want errInvalid", err)
	}
	if !strings.Contains(out, "Widget at index 0 has unknown type: gantt") {
		t.Fatalf("missing validation message: %q", out)
	}

	if _, _, err = run(t, "--kind", "gantt=GanttWidget", "validate", bad); err != nil {
		t.Fatalf("extra kind not honoured: %v", err)
	}
}

func TestProcess(t *testing.T) {
	p := writeFile(t, "board.yaml", boardYAML)

	out, stderr, err := run(t, "process", p, "--var", "projectName=Apollo", "--var", "limit=12",
		"--theme", "fontFamily=Inter", "-o", "json")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, want := range []string{`"title": "Apollo board"`, `"limit": "12"`, `"fontFamily": "Inter"`, `"primaryColor": "#000000"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if stderr != "" {
		t.Errorf("unexpected warnings: %q", stderr)
	}
}

func TestProcess_Warnings(t *testing.T) {
	p := writeFile(t, "board.yaml", boardYAML)

	_, stderr, err := run(t, "process", p, "--var", "limit=99")
	if err != nil {
		t.Fatalf("lenient process failed: %v", err)
	}
	if !strings.Contains(stderr, `Variable "projectName" is required`) ||
		!strings.Contains(stderr, `Variable "limit" must be at most 50`) {
		t.Fatalf("warnings = %q", stderr)
	}

	if _, _, err := run(t, "process", p, "--strict"); err == nil {
		t.Fatal("strict mode should fail")
	}
	if _, _, err := run(t, "process", p, "--theme", "colour=red"); err == nil {
		t.Fatal("unknown theme field should fail")
	}
}

func TestKinds(t *testing.T) {
	out, _, err := run(t, "kinds")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "task-board") || !strings.Contains(out, "TaskBoardWidget") {
		t.Fatalf("kinds output = %q", out)
	}
}

func TestParseVars(t *testing.T) {
	tpl := &layout.Template{Variables: []layout.Variable{
		{Name: "n", Type: layout.KindNumber},
		{Name: "b", Type: layout.KindBoolean},
		{Name: "bad", Type: layout.KindNumber},
	}}
	vars, err := parseVars(tpl, []string{
		"n=3", "b=true", "bad=many", "ver=1.10", "code=007", "id=0x1F", "d=2024-05-01", "s=hello world",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"n":    3.0,
		"b":    true,
		"bad":  "many",
		"ver":  "1.10",
		"code": "007",
		"id":   "0x1F",
		"d":    "2024-05-01",
		"s":    "hello world",
	}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Fatalf("vars (-want +got):\n%s", diff)
	}
	if _, err := parseVars(tpl, []string{"novalue"}); err == nil {
		t.Fatal("expected error for missing =")
	}
}

func TestProcess_KeepsTypedText(t *testing.T) {
	p := writeFile(t, "board.yaml", boardYAML)
	out, _, err := run(t, "process", p, "--var", "projectName=007", "-o", "json")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(out, `"title": "007 board"`) {
		t.Fatalf("typed text rewritten:\n%s", out)
	}
}
