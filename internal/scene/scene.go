package scene

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultName is used when the source declares no recognizable scene. It
// matches the class name the stock templates ship with, so template-derived
// submissions render even when the user mangles the declaration.
const DefaultName = "MotivationAndTheoremWithAudioScene"

// audioToken marks source that already attaches an audio asset.
const audioToken = "attach_audio"

// declPattern matches a class declaration and captures the identifier and the
// base list. The source does not have to be syntactically complete; a single
// well-formed declaration line is enough.
var declPattern = regexp.MustCompile(`(?m)^[ \t]*class[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]*\(([^)]*)\)[ \t]*:`)

// Declaration is the structural model of an entry-point match: the identifier
// plus the byte offset of the start of its declaration line, which doubles as
// the insertion point for directives that must precede the declaration.
type Declaration struct {
	Name   string
	Offset int
}

// Found reports whether the declaration was located in the source. When false,
// Name carries the default identifier and Offset is meaningless.
func (d Declaration) Found() bool {
	return d.Offset >= 0
}

// Extract scans source for the first class declaration whose base list
// contains the scene marker and returns its structural model. It never fails:
// when nothing matches, the returned declaration carries DefaultName and a
// negative offset.
func Extract(source string) Declaration {
	for _, match := range declPattern.FindAllStringSubmatchIndex(source, -1) {
		bases := source[match[4]:match[5]]
		if !strings.Contains(bases, "Scene") {
			continue
		}
		return Declaration{
			Name:   source[match[2]:match[3]],
			Offset: lineStart(source, match[0]),
		}
	}
	return Declaration{Name: DefaultName, Offset: -1}
}

// HasAudioDirective reports whether the source already references an
// audio-attachment directive.
func HasAudioDirective(source string) bool {
	return strings.Contains(source, audioToken)
}

// AudioDirective renders the attachment directive line for the given asset.
func AudioDirective(audioPath string) string {
	return fmt.Sprintf("@%s(%q)", audioToken, audioPath)
}

// InjectAudioDirective inserts an audio-attachment directive immediately above
// the declaration. It returns the source unchanged (ok=false) when the
// declaration was never located; callers treat that as a non-fatal diagnostic
// and render without audio.
func InjectAudioDirective(source string, decl Declaration, audioPath string) (string, bool) {
	if !decl.Found() || decl.Offset > len(source) {
		return source, false
	}
	directive := AudioDirective(audioPath) + "\n"
	return source[:decl.Offset] + directive + source[decl.Offset:], true
}

// lineStart walks back from pos to the beginning of its line. The declaration
// pattern anchors at line starts modulo leading whitespace, so this normalizes
// the offset to a clean insertion point.
func lineStart(source string, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}
