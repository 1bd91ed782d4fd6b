package manim

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Strategy identifies which progress signal the tracker is currently using.
// Engine versions differ in what they log; the tracker locks onto the highest
// fidelity signal it has seen.
type Strategy int

const (
	StrategyUnknown Strategy = iota
	// StrategyAnimationCount uses "Animation N of M" lines. Once seen it
	// permanently suppresses the other strategies for the job.
	StrategyAnimationCount
	// StrategyFrameCount divides a reported current frame by a previously
	// announced total frame count.
	StrategyFrameCount
	// StrategyRawPercent uses a bare percentage token as a best-effort signal.
	StrategyRawPercent
)

func (s Strategy) String() string {
	switch s {
	case StrategyAnimationCount:
		return "animation-count"
	case StrategyFrameCount:
		return "frame-count"
	case StrategyRawPercent:
		return "raw-percent"
	default:
		return "unknown"
	}
}

// ProgressUpdate is delivered to the observer after every line that changes
// the completion estimate.
type ProgressUpdate struct {
	Fraction float64
	Message  string
}

// incompleteCap keeps frame and percent signals below 1.0 until the process
// actually exits, so completion is never signalled prematurely.
const incompleteCap = 0.99

var (
	animationPattern   = regexp.MustCompile(`(?i)\banimation\s+(\d+)\s*(?:/|out\s+of|of)\s*(\d+)`)
	totalFramesPattern = regexp.MustCompile(`(?i)\btotal\s+(?:number\s+of\s+)?frames?\s*[:=]?\s*(\d+)`)
	framePattern       = regexp.MustCompile(`(?i)\bframes?\s*[:#]?\s*(\d+)\b`)
	percentPattern     = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)
)

// progressTracker maintains a monotonically non-decreasing completion
// fraction across heterogeneous log formats. It is not safe for concurrent
// use; the client serializes line delivery.
type progressTracker struct {
	strategy    Strategy
	totalFrames int
	fraction    float64
}

// Observe consumes one output line. The returned update is valid only when
// ok is true, i.e. the line changed the completion estimate.
func (t *progressTracker) Observe(line string) (ProgressUpdate, bool) {
	if m := animationPattern.FindStringSubmatch(line); m != nil {
		current, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		if total <= 0 {
			return ProgressUpdate{}, false
		}
		fraction := float64(current) / float64(total)
		if fraction > 1 {
			fraction = 1
		}
		// First animation-count line may legitimately lower the fraction:
		// it is a higher fidelity signal than whatever came before.
		if t.strategy != StrategyAnimationCount {
			t.strategy = StrategyAnimationCount
			t.fraction = fraction
		} else if fraction <= t.fraction {
			return ProgressUpdate{}, false
		} else {
			t.fraction = fraction
		}
		return t.update(fmt.Sprintf("Animation %d of %d", current, total)), true
	}
	if t.strategy == StrategyAnimationCount {
		return ProgressUpdate{}, false
	}

	if m := totalFramesPattern.FindStringSubmatch(line); m != nil {
		if t.totalFrames == 0 {
			t.totalFrames, _ = strconv.Atoi(m[1])
		}
		return ProgressUpdate{}, false
	}

	if t.totalFrames > 0 {
		if m := framePattern.FindStringSubmatch(line); m != nil {
			current, _ := strconv.Atoi(m[1])
			fraction := capIncomplete(float64(current) / float64(t.totalFrames))
			if fraction <= t.fraction {
				return ProgressUpdate{}, false
			}
			t.strategy = StrategyFrameCount
			t.fraction = fraction
			return t.update(fmt.Sprintf("Frame %d of %d", current, t.totalFrames)), true
		}
	}

	// Once a frame total is known the frame-count strategy owns progress;
	// bare percentages are no longer consulted.
	if t.strategy == StrategyFrameCount || t.totalFrames > 0 {
		return ProgressUpdate{}, false
	}

	if m := percentPattern.FindStringSubmatch(line); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil || value > 100 {
			return ProgressUpdate{}, false
		}
		fraction := capIncomplete(value / 100)
		if fraction <= t.fraction {
			return ProgressUpdate{}, false
		}
		t.strategy = StrategyRawPercent
		t.fraction = fraction
		return t.update(fmt.Sprintf("%.0f%%", value)), true
	}

	return ProgressUpdate{}, false
}

// Finish forces the completion fraction to 1.0 after process exit.
func (t *progressTracker) Finish() ProgressUpdate {
	t.fraction = 1
	return t.update("Render finished")
}

func (t *progressTracker) update(message string) ProgressUpdate {
	return ProgressUpdate{Fraction: t.fraction, Message: message}
}

func capIncomplete(fraction float64) float64 {
	if fraction > incompleteCap {
		return incompleteCap
	}
	return fraction
}

// maxPathLines bounds how many lines after a "file ready" announcement are
// scanned for a wrapped output path.
const maxPathLines = 5

var (
	fileReadyPattern  = regexp.MustCompile(`(?i)file\s+ready\s+at`)
	quotedPathPattern = regexp.MustCompile(`['"]([^'"]+\.(?:mp4|gif|png|svg|webm|mov))['"]`)
	barePathPattern   = regexp.MustCompile(`(?i)([^\s'"]+\.(?:mp4|gif|png|svg|webm|mov))\b`)
)

// pathScanner extracts the engine's self-reported output file path. The
// engine's log formatter wraps long paths across lines, so after the
// announcement line the scanner greedily accumulates a few lines and matches
// the joined text. The most recent extracted path wins.
type pathScanner struct {
	pending []string
	path    string
}

func (s *pathScanner) Scan(line string) {
	if fileReadyPattern.MatchString(line) {
		s.pending = s.pending[:0]
		s.pending = append(s.pending, strings.TrimSpace(line))
		s.tryExtract()
		return
	}
	if s.pending == nil {
		return
	}
	s.pending = append(s.pending, strings.TrimSpace(line))
	if s.tryExtract() || len(s.pending) > maxPathLines {
		s.pending = nil
	}
}

func (s *pathScanner) tryExtract() bool {
	joined := strings.Join(s.pending, "")
	if m := quotedPathPattern.FindStringSubmatch(joined); m != nil {
		s.path = m[1]
		s.pending = nil
		return true
	}
	if m := barePathPattern.FindStringSubmatch(joined); m != nil {
		s.path = m[1]
		s.pending = nil
		return true
	}
	return false
}

// Path returns the last extracted self-reported output path, if any.
func (s *pathScanner) Path() string {
	return s.path
}
