package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sceneforge/internal/services"
)

// Executor abstracts the ffmpeg process launch so tests can substitute a
// stub implementation.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Converter re-encodes engine video output with ffmpeg.
type Converter struct {
	binary string
	width  int
	fps    int
	exec   Executor
}

// Option adjusts converter construction.
type Option func(*Converter)

// WithExecutor substitutes the process launcher, primarily for tests.
func WithExecutor(exec Executor) Option {
	return func(c *Converter) { c.exec = exec }
}

// NewConverter builds a converter around the given ffmpeg binary. Width is
// the output GIF width in pixels (height follows the aspect ratio) and fps
// the output frame rate.
func NewConverter(binary string, width, fps int, opts ...Option) *Converter {
	c := &Converter{binary: binary, width: width, fps: fps, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// paletteFilter builds the two-pass palette filter graph. Generating a
// dedicated palette before mapping pixels avoids the banding of ffmpeg's
// default 256-color quantization.
func paletteFilter(width, fps int) string {
	return fmt.Sprintf(
		"fps=%d,scale=%d:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse",
		fps, width,
	)
}

// ConvertToGIF re-encodes the video at source into a looping GIF and returns
// the encoded bytes. The output file is written next to the source and
// removed before returning.
func (c *Converter) ConvertToGIF(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, services.Wrap(services.ErrConversion, "convert", "gif", "no source video", nil)
	}
	dest := strings.TrimSuffix(source, filepath.Ext(source)) + ".gif"
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vf", paletteFilter(c.width, c.fps),
		"-loop", "0",
		dest,
	}
	output, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = "ffmpeg failed"
		}
		return nil, services.Wrap(services.ErrConversion, "convert", "gif", detail, err)
	}
	defer os.Remove(dest)
	bytes, err := os.ReadFile(dest)
	if err != nil {
		return nil, services.Wrap(services.ErrConversion, "convert", "gif", "read converted output", err)
	}
	if len(bytes) == 0 {
		return nil, services.Wrap(services.ErrConversion, "convert", "gif", "converted output is empty", nil)
	}
	return bytes, nil
}
