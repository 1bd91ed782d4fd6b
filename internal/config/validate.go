package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkspaceRoot == "" {
		return errors.New("paths.workspace_root must be set")
	}
	if c.Paths.WorkspaceRoot == c.Paths.LogDir {
		return errors.New("paths.workspace_root and paths.log_dir must differ; workspaces are deleted after every job")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Binary == "" {
		return errors.New("engine.binary must be set")
	}
	if c.Engine.RenderTimeout < 0 {
		return errors.New("engine.render_timeout must be zero or positive")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if c.Converter.Binary == "" {
		return errors.New("converter.binary must be set")
	}
	if c.Converter.GIFWidth < 16 {
		return fmt.Errorf("converter.gif_width %d is too small", c.Converter.GIFWidth)
	}
	if c.Converter.GIFFPS < 1 || c.Converter.GIFFPS > 60 {
		return fmt.Errorf("converter.gif_fps %d outside supported range 1-60", c.Converter.GIFFPS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
