package render

import (
	"strings"

	"sceneforge/internal/artifact"
	"sceneforge/internal/media"
	"sceneforge/internal/services"
)

// Request describes one render job. Format and Quality select the output;
// everything else tunes how the engine runs.
type Request struct {
	// SourceText is the scene source code, written verbatim to the job file
	// after the synthesized preamble.
	SourceText string
	Format     media.Format
	// Quality is a preset tier name ("480p".."4320p" or an alias);
	// unrecognized values fall back to the medium tier.
	Quality string
	// FPS overrides the preset's frame rate when positive.
	FPS int
	// SpeedMultiplier scales the effective frame rate; zero or negative
	// means 1.0.
	SpeedMultiplier float64
	// AudioPath is an optional audio file to attach to the scene.
	AudioPath string
	// BackgroundColor is an optional hex color for the scene background.
	BackgroundColor string
}

func (r *Request) normalize() {
	r.SourceText = strings.ReplaceAll(r.SourceText, "\r\n", "\n")
	if r.SpeedMultiplier <= 0 {
		r.SpeedMultiplier = 1.0
	}
}

func (r *Request) validate() error {
	if strings.TrimSpace(r.SourceText) == "" {
		return services.Wrap(services.ErrValidation, "render", "validate", "source text is empty", nil)
	}
	if _, err := media.ParseFormat(string(r.Format)); err != nil {
		return services.Wrap(services.ErrValidation, "render", "validate", err.Error(), nil)
	}
	return nil
}

// Result is the caller-facing outcome of a job. Artifact is nil on failure;
// Status is always a non-empty human-readable summary.
type Result struct {
	Artifact  *artifact.Artifact
	Status    string
	SceneName string
	// Converted reports that the artifact came from the fallback converter
	// rather than the engine directly.
	Converted bool
}
