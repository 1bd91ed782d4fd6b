package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sceneforge/internal/media"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "presets",
		Short:       "List the quality preset table",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(media.Presets()))
			for _, p := range media.Presets() {
				rows = append(rows, []string{
					p.Tier,
					p.Resolution,
					strconv.Itoa(p.FPS),
					p.EngineFlag,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tier", "Resolution", "Default FPS", "Engine Flag"},
				rows,
				3,
			))
			return nil
		},
	}
}
