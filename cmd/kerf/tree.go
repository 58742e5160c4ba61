package main

import (
	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/graph"
)

var treeCmd = &cobra.Command{
	Use:   "tree <script>",
	Short: "Describe the shape trees of a script as YAML",
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
		b, err := graph.MarshalYAML(res.Graph())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
