package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var measureCmd = &cobra.Command{
	Use:   "measure <script>",
	Short: "Print volume or area, centroid and bounds of each part",
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
		only, _ := cmd.Flags().GetStringSlice("part")
		names, shapes, err := selectParts(res, only)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, s := range shapes {
			props, err := e.session.Evaluator().Measure(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("part %s: %w", names[i], err)
			}
			fmt.Fprintf(out, "%s (%s): %s\n", names[i], s.Node().Dim, props)
		}
		st := e.session.Evaluator().Stats()
		e.log.Debug("evaluator", "kernel_calls", st.KernelCalls, "hits", st.Hits, "misses", st.Misses)
		return nil
	},
}

func init() {
	measureCmd.Flags().StringSlice("part", nil, "measure only these parts")
	rootCmd.AddCommand(measureCmd)
}
