package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"sceneforge/internal/services/manim"
)

// progressReporter renders live engine progress: an interactive bar on a
// terminal, plain percentage lines otherwise.
type progressReporter struct {
	out         io.Writer
	bar         *progressbar.ProgressBar
	lastPercent int
}

func newProgressReporter(out io.Writer) *progressReporter {
	r := &progressReporter{out: out, lastPercent: -1}
	if isTerminal(out) {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *progressReporter) update(u manim.ProgressUpdate) {
	percent := int(u.Fraction * 100)
	if r.bar != nil {
		_ = r.bar.Set(percent)
		return
	}
	// Avoid flooding non-interactive output with every fractional change.
	if percent == r.lastPercent {
		return
	}
	r.lastPercent = percent
	fmt.Fprintf(r.out, "%3d%% %s\n", percent, u.Message)
}

func (r *progressReporter) close() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
