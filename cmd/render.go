package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/trafficdash/internal/dashboard"
	"github.com/KaramelBytes/trafficdash/internal/utils"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard as a standalone HTML page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPage()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := dashboard.Render(&buf, p); err != nil {
			return err
		}
		if renderOutput == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := utils.SafeWriteFile(renderOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote dashboard to %s\n", renderOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write HTML to this path instead of stdout")
}
