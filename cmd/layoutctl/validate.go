package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/layoutkit/internal/definition"
)

var errInvalid = errors.New("one or more templates are invalid")

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <files...>",
		Short: "Check template files for structural errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := g.engine()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			failed := 0
			for _, p := range args {
				t, err := definition.LoadFile(p)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n  %v\n", p, err)
					continue
				}
				res := eng.Validate(t)
				if res.Valid {
					fmt.Fprintf(out, "ok   %s (%s)\n", p, t.ID)
					continue
				}
				failed++
				fmt.Fprintf(out, "FAIL %s (%s)\n", p, t.ID)
				for _, e := range res.Errors {
					fmt.Fprintf(out, "  %s\n", e)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalid, failed, len(args))
			}
			return nil
		},
	}
}
