package config

const (
	defaultWorkspaceRoot  = "~/.local/share/sceneforge/workspaces"
	defaultLogDir         = "~/.local/share/sceneforge/logs"
	defaultEngineBinary   = "manim"
	defaultRenderTimeout  = 1800
	defaultQualityTier    = "480p"
	defaultFFmpegBinary   = "ffmpeg"
	defaultGIFWidth       = 480
	defaultGIFFPS         = 15
	defaultHistoryEnabled = true
	defaultHistoryPath    = "~/.local/share/sceneforge/history.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceRoot: defaultWorkspaceRoot,
			LogDir:        defaultLogDir,
		},
		Engine: Engine{
			Binary:         defaultEngineBinary,
			RenderTimeout:  defaultRenderTimeout,
			DefaultQuality: defaultQualityTier,
		},
		Converter: Converter{
			Binary:   defaultFFmpegBinary,
			GIFWidth: defaultGIFWidth,
			GIFFPS:   defaultGIFFPS,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
