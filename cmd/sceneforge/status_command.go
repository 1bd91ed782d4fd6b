package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the host environment for rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				state := "FAIL"
				switch {
				case r.Passed:
					state = "OK"
				case r.Optional:
					state = "WARN"
				}
				rows = append(rows, []string{r.Name, state, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "State", "Detail"}, rows))

			if !preflight.Ready(results) {
				return fmt.Errorf("environment is not ready for rendering")
			}
			fmt.Fprintln(out, "Ready to render")
			return nil
		},
	}
}
