package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/layoutkit/internal/engine"
	"github.com/yanizio/layoutkit/internal/logger"
	"github.com/yanizio/layoutkit/internal/widget"
)

// globals shared by subcommands, bound to persistent flags.
type globals struct {
	verbose    bool
	extraKinds []string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "layoutctl",
		Short:         "Validate and preview layout templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().StringArrayVar(&g.extraKinds, "kind", nil,
		"extra widget kind as kind=Renderer (repeatable)")

	root.AddCommand(newValidateCmd(g), newProcessCmd(g), newKindsCmd(g))
	return root
}

// registry returns the stock kinds plus any --kind additions.
func (g *globals) registry() (*widget.Registry[string], error) {
	r := widget.NewRegistry[string]()
	widget.RegisterBuiltins(r)
	for _, kv := range g.extraKinds {
		kind, impl, ok := strings.Cut(kv, "=")
		if !ok {
			impl = kind
		}
		if err := r.Register(kind, impl); err != nil {
			return nil, fmt.Errorf("--kind %q: %w", kv, err)
		}
	}
	return r, nil
}

func (g *globals) engine() (*engine.Engine, error) {
	kinds, err := g.registry()
	if err != nil {
		return nil, err
	}
	return engine.New(kinds, engine.WithLogger(g.logger())), nil
}

func (g *globals) logger() *zap.SugaredLogger { return logger.Console(g.verbose) }

func newKindsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List registered widget kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := g.registry()
			if err != nil {
				return err
			}
			all := r.All()
			for _, k := range r.Kinds() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", k, all[k])
			}
			return nil
		},
	}
}
