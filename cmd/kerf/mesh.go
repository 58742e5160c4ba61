package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var meshCmd = &cobra.Command{
	Use:   "mesh <script>",
	Short: "Print the tessellated parts of a script as JSON for viewers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result := e.session.Run(cmd.Context(), string(src))

		enc := json.NewEncoder(cmd.OutOrStdout())
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("%s: %d error(s)", args[0], len(result.Errors))
		}
		return nil
	},
}

func init() {
	meshCmd.Flags().Bool("pretty", false, "indent the JSON")
	rootCmd.AddCommand(meshCmd)
}
