package manim

import (
	"strings"
	"sync"
)

// defaultTail is how many trailing lines Excerpt includes in error reports.
const defaultTail = 25

// Transcript retains every raw engine output line for diagnostics. The full
// transcript backs error reporting; Tail serves bounded live display.
type Transcript struct {
	mu    sync.Mutex
	lines []string
}

// Append records one raw output line.
func (t *Transcript) Append(line string) {
	t.mu.Lock()
	t.lines = append(t.lines, line)
	t.mu.Unlock()
}

// Lines returns a copy of the full transcript.
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Len reports the number of recorded lines.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}

// Tail returns at most n trailing lines.
func (t *Transcript) Tail(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 || len(t.lines) == 0 {
		return nil
	}
	start := len(t.lines) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(t.lines)-start)
	copy(out, t.lines[start:])
	return out
}

// Excerpt joins the transcript tail into a single diagnostic string.
func (t *Transcript) Excerpt() string {
	return strings.Join(t.Tail(defaultTail), "\n")
}
