package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/graph"
)

var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Validate a script's parts, optionally realizing them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		res, err := e.build(args[0])
		if err != nil {
			return err
		}
		g := res.Graph()
		out := cmd.OutOrStdout()

		vr := graph.ValidateAll(g)
		for _, w := range vr.Warnings {
			fmt.Fprintf(out, "warning: %s: %s\n", nodeLabel(g, w.NodeID), w.Message)
		}
		for _, ve := range vr.Errors {
			fmt.Fprintf(out, "error: %s: %s\n", nodeLabel(g, ve.NodeID), ve.Message)
		}
		failed := len(vr.Errors)

		if realize, _ := cmd.Flags().GetBool("realize"); realize && vr.OK() {
			for i, s := range res.Shapes {
				if s.Node().IsEmpty() {
					continue
				}
				if _, err := e.session.Evaluator().Realize(cmd.Context(), s); err != nil {
					fmt.Fprintf(out, "error: %s: %v\n", res.Names[i], err)
					failed++
				}
			}
		}

		if failed > 0 {
			return fmt.Errorf("%s: %d problem(s)", args[0], failed)
		}
		fmt.Fprintf(out, "%s: %d part(s) ok\n", args[0], len(res.Names))
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("realize", false, "also realize every part with the kernel")
	rootCmd.AddCommand(checkCmd)
}

func nodeLabel(g *graph.DesignGraph, id graph.NodeID) string {
	if id.IsZero() {
		return "graph"
	}
	if name := g.NameOf(id); name != "" {
		return name
	}
	return id.Short()
}
