package media

import (
	"fmt"
	"strings"
)

// Preset maps a named quality tier to engine invocation parameters.
type Preset struct {
	// Tier is the user-facing name, e.g. "480p".
	Tier string
	// Resolution is the vertical resolution label the engine uses when
	// building its media output directories.
	Resolution string
	// FPS is the default frame rate applied when the caller does not
	// request one explicitly.
	FPS int
	// EngineFlag is the quality flag passed to the engine.
	EngineFlag string
}

// DirTag returns the resolution+fps directory tag the engine appends under its
// media tree, e.g. "480p15".
func (p Preset) DirTag(fps int) string {
	if fps <= 0 {
		fps = p.FPS
	}
	return fmt.Sprintf("%s%d", p.Resolution, fps)
}

// DefaultTier is used when the caller does not name a preset.
const DefaultTier = "480p"

// fallbackTier is applied when an unrecognized tier is requested.
const fallbackTier = "720p"

var presets = []Preset{
	{Tier: "480p", Resolution: "480p", FPS: 15, EngineFlag: "-ql"},
	{Tier: "720p", Resolution: "720p", FPS: 30, EngineFlag: "-qm"},
	{Tier: "1080p", Resolution: "1080p", FPS: 60, EngineFlag: "-qh"},
	{Tier: "1440p", Resolution: "1440p", FPS: 60, EngineFlag: "-qp"},
	{Tier: "2160p", Resolution: "2160p", FPS: 60, EngineFlag: "-qk"},
	// The engine exposes no flag above 4K; 8K reuses the highest tier flag.
	{Tier: "4320p", Resolution: "4320p", FPS: 60, EngineFlag: "-qk"},
}

// tier aliases accepted from callers alongside the canonical names.
var tierAliases = map[string]string{
	"draft":  "480p",
	"medium": "720p",
	"high":   "1080p",
	"2k":     "1440p",
	"4k":     "2160p",
	"8k":     "4320p",
}

// Presets returns the full preset table in tier order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset resolves a tier name to its preset. Unknown tiers fall back to
// the medium-quality preset so a render can always proceed.
func LookupPreset(tier string) Preset {
	name := strings.ToLower(strings.TrimSpace(tier))
	if name == "" {
		name = DefaultTier
	}
	if canonical, ok := tierAliases[name]; ok {
		name = canonical
	}
	for _, p := range presets {
		if p.Tier == name {
			return p
		}
	}
	return LookupPreset(fallbackTier)
}
