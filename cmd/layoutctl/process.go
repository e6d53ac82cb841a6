package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/layoutkit/internal/definition"
	"github.com/yanizio/layoutkit/internal/layout"
)

type processOpts struct {
	vars   []string
	theme  []string
	format string
	strict bool
}

func newProcessCmd(g *globals) *cobra.Command {
	o := &processOpts{}
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Substitute variables into a template and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := g.engine()
			if err != nil {
				return err
			}
			t, err := definition.LoadFile(args[0])
			if err != nil {
				return err
			}
			vars, err := parseVars(t, o.vars)
			if err != nil {
				return err
			}

			warnings := eng.CheckVariables(t, vars)
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			if o.strict && len(warnings) > 0 {
				return fmt.Errorf("%d variable problem(s)", len(warnings))
			}

			out := eng.Process(t, vars)
			if len(o.theme) > 0 {
				th, err := parseTheme(o.theme)
				if err != nil {
					return err
				}
				out = eng.ApplyTheme(out, th)
			}
			return write(cmd, out, o.format)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&o.vars, "var", nil, "variable as name=value (repeatable)")
	f.StringArrayVar(&o.theme, "theme", nil, "theme override as field=value (repeatable)")
	f.StringVarP(&o.format, "output", "o", "yaml", "output format: yaml or json")
	f.BoolVar(&o.strict, "strict", false, "fail when variables violate their declarations")
	return cmd
}

// parseVars turns name=value pairs into a variable map.  Values stay the
// text the user typed unless t declares the variable as a number or a
// boolean and the text parses as one.
func parseVars(t *layout.Template, pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--var %q: want name=value", p)
		}
		vars[name] = coerce(t, name, raw)
	}
	return vars, nil
}

// coerce converts raw to the declared kind of name.  Unparseable text is
// kept as is so CheckVariables can report it.
func coerce(t *layout.Template, name, raw string) any {
	decl, ok := t.Variable(name)
	if !ok {
		return raw
	}
	switch decl.Type {
	case layout.KindNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return f
		}
	case layout.KindBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return b
		}
	}
	return raw
}

// parseTheme maps field=value pairs onto layout.Theme using its YAML field
// names.  Unknown fields are rejected.
func parseTheme(pairs []string) (layout.Theme, error) {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return layout.Theme{}, fmt.Errorf("--theme %q: want field=value", p)
		}
		m[k] = v
	}
	raw, err := yaml.Marshal(m)
	if err != nil {
		return layout.Theme{}, err
	}
	var th layout.Theme
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&th); err != nil {
		return layout.Theme{}, fmt.Errorf("--theme: %w", err)
	}
	return th, nil
}

func write(cmd *cobra.Command, t *layout.Template, format string) error {
	var (
		raw []byte
		err error
	)
	switch format {
	case "yaml", "yml":
		raw, err = definition.Encode(t)
	case "json":
		raw, err = json.MarshalIndent(t, "", "  ")
		raw = append(raw, '\n')
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(raw)
	return err
}
