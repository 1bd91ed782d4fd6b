package render

import (
	"fmt"
	"strings"
)

// buildJobSource assembles the final job file: the engine import, a config
// preamble pointing media output into the workspace, then the user source
// verbatim.
func buildJobSource(source, mediaDir, backgroundColor string, frameRate int) string {
	var b strings.Builder
	b.WriteString("from manim import *\n")
	fmt.Fprintf(&b, "config.media_dir = %q\n", mediaDir)
	if backgroundColor != "" {
		fmt.Fprintf(&b, "config.background_color = %q\n", backgroundColor)
	}
	fmt.Fprintf(&b, "config.frame_rate = %d\n", frameRate)
	b.WriteString("\n")
	b.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
