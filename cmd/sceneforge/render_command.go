package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/fileutil"
	"sceneforge/internal/history"
	"sceneforge/internal/logging"
	"sceneforge/internal/media"
	"sceneforge/internal/preflight"
	"sceneforge/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag     string
		qualityFlag    string
		fpsFlag        int
		speedFlag      float64
		audioFlag      string
		backgroundFlag string
		outputFlag     string
	)

	cmd := &cobra.Command{
		Use:   "render [source file]",
		Short: "Render a scene source file into an artifact",
		Long: "Render submits the scene source to the engine, reports live progress,\n" +
			"and writes the produced artifact to disk. Pass \"-\" (or no argument)\n" +
			"to read the source from stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			checks := preflight.RunAll(cfg)
			if !preflight.Ready(checks) {
				for _, r := range checks {
					if !r.Passed && !r.Optional {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", r.Name, r.Detail)
					}
				}
				return fmt.Errorf("environment is not ready for rendering (run 'sceneforge status')")
			}

			format, err := media.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			quality := strings.TrimSpace(qualityFlag)
			if quality == "" {
				quality = cfg.Engine.DefaultQuality
			}

			logger, err := logging.New(logging.Options{
				Level:    cfg.Logging.Level,
				Format:   cfg.Logging.Format,
				FilePath: cfg.LogFilePath(),
			})
			if err != nil {
				return err
			}

			opts := []render.Option{}
			if cfg.History.Enabled {
				store, histErr := history.Open(cfg.History.Path)
				if histErr != nil {
					logger.Warn("open history store", logging.Error(histErr))
				} else {
					defer store.Close()
					opts = append(opts, render.WithHistory(store))
				}
			}

			svc, err := render.NewService(cfg, logger, opts...)
			if err != nil {
				return err
			}

			reporter := newProgressReporter(cmd.ErrOrStderr())
			result, err := svc.Render(cmd.Context(), render.Request{
				SourceText:      source,
				Format:          format,
				Quality:         quality,
				FPS:             fpsFlag,
				SpeedMultiplier: speedFlag,
				AudioPath:       audioFlag,
				BackgroundColor: backgroundFlag,
			}, reporter.update)
			reporter.close()
			if err != nil {
				return fmt.Errorf("%s", result.Status)
			}

			target := strings.TrimSpace(outputFlag)
			if target == "" {
				target = result.SceneName + format.ArtifactExt()
			}
			if err := fileutil.WriteFileAtomic(target, result.Artifact.Bytes); err != nil {
				return fmt.Errorf("write artifact: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Status)
			fmt.Fprintf(out, "Wrote %s (%d bytes)\n", target, len(result.Artifact.Bytes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(media.FormatVideo), "Output format: mp4, gif, png, svg")
	cmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Quality tier (480p..4320p or draft/medium/high/2k/4k/8k)")
	cmd.Flags().IntVar(&fpsFlag, "fps", 0, "Frame rate override (0 uses the preset default)")
	cmd.Flags().Float64Var(&speedFlag, "speed", 1.0, "Animation speed multiplier")
	cmd.Flags().StringVar(&audioFlag, "audio", "", "Audio file to attach to the scene")
	cmd.Flags().StringVar(&backgroundFlag, "background", "", "Background color, e.g. #1A1A2E")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Artifact destination (defaults to <scene><ext> in the current directory)")

	return cmd
}

// readSource loads the scene source from the named file, or from stdin when
// no argument (or "-") is given.
func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read source from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}
	return string(data), nil
}
