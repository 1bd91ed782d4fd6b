package media

import (
	"fmt"
	"strings"
)

// Format identifies the artifact type a render job must produce. The value is
// the file extension the engine (or converter) writes.
type Format string

const (
	FormatVideo         Format = "mp4"
	FormatAnimatedImage Format = "gif"
	FormatImageSequence Format = "png"
	FormatVector        Format = "svg"
)

// knownExtensions lists every extension the engine may self-report a produced
// file under, including intermediates the requested format can be derived from.
var knownExtensions = []string{".mp4", ".gif", ".png", ".svg", ".webm", ".mov"}

// ParseFormat maps user input to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "."))) {
	case "mp4", "video":
		return FormatVideo, nil
	case "gif":
		return FormatAnimatedImage, nil
	case "png", "png_sequence", "sequence":
		return FormatImageSequence, nil
	case "svg", "vector":
		return FormatVector, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", value)
	}
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// IsSequence reports whether the format produces multiple image files that
// must be packaged into a single archive artifact.
func (f Format) IsSequence() bool {
	return f == FormatImageSequence
}

// ArtifactExt returns the extension of the final artifact handed to the
// caller. Image sequences are delivered as a zip archive.
func (f Format) ArtifactExt() string {
	if f.IsSequence() {
		return ".zip"
	}
	return f.Ext()
}

// KnownExtensions returns the extensions recognized when extracting
// self-reported output paths from engine logs.
func KnownExtensions() []string {
	out := make([]string, len(knownExtensions))
	copy(out, knownExtensions)
	return out
}

// HasKnownExtension reports whether path ends in an extension the engine is
// known to produce.
func HasKnownExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range knownExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
