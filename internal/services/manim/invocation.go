package manim

import (
	"fmt"

	"sceneforge/internal/media"
)

// Invocation is the fully materialized engine command line. It is built
// deterministically from job parameters; no ambient state contributes.
type Invocation struct {
	Binary string
	Args   []string
}

// InvocationParams collects everything needed to build an engine command.
type InvocationParams struct {
	JobFile   string
	SceneName string
	Preset    media.Preset
	Format    media.Format
	// FPS is the effective frame rate; zero omits the flag so the engine
	// falls back to the quality preset's rate.
	FPS int
	// MediaDir redirects the engine's media output tree into the job
	// workspace.
	MediaDir string
}

// NewInvocation builds the engine command line: positional job file and scene
// identifier first, then the quality flag and format options.
func NewInvocation(binary string, p InvocationParams) Invocation {
	args := []string{p.JobFile, p.SceneName, p.Preset.EngineFlag, "--format=" + string(p.Format)}
	if p.FPS > 0 {
		args = append(args, fmt.Sprintf("--fps=%d", p.FPS))
	}
	if p.MediaDir != "" {
		args = append(args, "--media_dir", p.MediaDir)
	}
	if p.Format.IsSequence() {
		args = append(args, "--save_pngs")
	}
	return Invocation{Binary: binary, Args: args}
}
