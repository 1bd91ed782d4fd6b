package preflight

import (
	"sceneforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// minFreeBytes is the free-space floor for the workspace filesystem. Renders
// at high quality tiers produce multi-hundred-megabyte intermediates.
const minFreeBytes = 1 << 30

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	converter := CheckBinary("Converter", cfg.Converter.Binary, "Needed only for animated-image fallback conversion")
	converter.Optional = true

	results := []Result{
		CheckBinary("Render engine", cfg.Engine.Binary, "Required to render scenes"),
		converter,
		CheckDirectoryAccess("Workspace root", cfg.Paths.WorkspaceRoot),
		CheckFreeSpace("Workspace free space", cfg.Paths.WorkspaceRoot, minFreeBytes),
	}
	return results
}

// Ready reports whether every non-optional check passed.
func Ready(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return false
		}
	}
	return true
}
