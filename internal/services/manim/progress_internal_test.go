package manim

import (
	"testing"
)

func observeAll(t *testing.T, tracker *progressTracker, lines []string) []ProgressUpdate {
	t.Helper()
	var updates []ProgressUpdate
	for _, line := range lines {
		if update, ok := tracker.Observe(line); ok {
			updates = append(updates, update)
		}
	}
	return updates
}

func TestTrackerAnimationCountStrategy(t *testing.T) {
	tracker := &progressTracker{}
	updates := observeAll(t, tracker, []string{
		"Some banner output",
		"Animation 1 of 2: Write(title)",
		"Animation 2 of 2: Transform(circle)",
	})
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d: %+v", len(updates), updates)
	}
	if updates[0].Fraction != 0.5 {
		t.Fatalf("first fraction = %v, want 0.5", updates[0].Fraction)
	}
	if updates[1].Fraction != 1.0 {
		t.Fatalf("second fraction = %v, want 1.0", updates[1].Fraction)
	}
	if tracker.strategy != StrategyAnimationCount {
		t.Fatalf("strategy = %v, want animation-count", tracker.strategy)
	}
}

func TestTrackerAnimationCountSuppressesOtherSignals(t *testing.T) {
	tracker := &progressTracker{}
	updates := observeAll(t, tracker, []string{
		"Animation 1 out of 4",
		"Total frames: 200",
		"frame 199",
		"99% done",
		"Animation 2 out of 4",
	})
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d: %+v", len(updates), updates)
	}
	if updates[1].Fraction != 0.5 {
		t.Fatalf("fraction after suppression = %v, want 0.5", updates[1].Fraction)
	}
	if tracker.strategy != StrategyAnimationCount {
		t.Fatalf("strategy changed to %v", tracker.strategy)
	}
}

func TestTrackerAnimationCountMayLowerFractionOnTakeover(t *testing.T) {
	tracker := &progressTracker{}
	updates := observeAll(t, tracker, []string{
		"90% complete",
		"Animation 1 of 10",
	})
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Fraction != 0.9 {
		t.Fatalf("percent fraction = %v, want 0.9", updates[0].Fraction)
	}
	if updates[1].Fraction != 0.1 {
		t.Fatalf("takeover fraction = %v, want 0.1", updates[1].Fraction)
	}
}

func TestTrackerFrameCountNeedsAnnouncedTotal(t *testing.T) {
	tracker := &progressTracker{}
	// Frame line before any total: treated as noise (no percent token either).
	if _, ok := tracker.Observe("frame 10"); ok {
		t.Fatal("frame line without total should not update")
	}
	if _, ok := tracker.Observe("Total frames: 100"); ok {
		t.Fatal("total announcement alone should not update")
	}
	update, ok := tracker.Observe("Rendered frame 50")
	if !ok {
		t.Fatal("expected update once total is known")
	}
	if update.Fraction != 0.5 {
		t.Fatalf("fraction = %v, want 0.5", update.Fraction)
	}
}

func TestTrackerFrameFractionCappedBelowOne(t *testing.T) {
	tracker := &progressTracker{}
	observeAll(t, tracker, []string{"Total frames: 100"})
	update, ok := tracker.Observe("frame 100")
	if !ok {
		t.Fatal("expected update")
	}
	if update.Fraction != 0.99 {
		t.Fatalf("fraction = %v, want cap 0.99", update.Fraction)
	}
}

func TestTrackerTotalFramesRecordedOnce(t *testing.T) {
	tracker := &progressTracker{}
	observeAll(t, tracker, []string{"Total frames: 100", "Total frames: 9"})
	if tracker.totalFrames != 100 {
		t.Fatalf("totalFrames = %d, want first announcement 100", tracker.totalFrames)
	}
}

func TestTrackerPercentCappedAndMonotonic(t *testing.T) {
	tracker := &progressTracker{}
	updates := observeAll(t, tracker, []string{
		"10%",
		"5%",
		"100%",
	})
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d: %+v", len(updates), updates)
	}
	if updates[0].Fraction != 0.1 {
		t.Fatalf("first fraction = %v", updates[0].Fraction)
	}
	if updates[1].Fraction != 0.99 {
		t.Fatalf("capped fraction = %v, want 0.99", updates[1].Fraction)
	}
}

func TestTrackerMonotonicAcrossInterleavings(t *testing.T) {
	lines := []string{
		"3%",
		"Total frames: 50",
		"frame 1",
		"frame 25",
		"12%",
		"frame 10",
		"frame 50",
	}
	tracker := &progressTracker{}
	last := 0.0
	for _, line := range lines {
		update, ok := tracker.Observe(line)
		if !ok {
			continue
		}
		if update.Fraction < last {
			t.Fatalf("fraction decreased from %v to %v on line %q", last, update.Fraction, line)
		}
		last = update.Fraction
	}
}

func TestTrackerFinishForcesCompletion(t *testing.T) {
	tracker := &progressTracker{}
	observeAll(t, tracker, []string{"Total frames: 10", "frame 9"})
	update := tracker.Finish()
	if update.Fraction != 1.0 {
		t.Fatalf("Finish fraction = %v, want 1.0", update.Fraction)
	}
}

func TestPathScannerSingleLine(t *testing.T) {
	s := &pathScanner{}
	s.Scan("File ready at '/tmp/media/videos/demo/480p15/Demo.mp4'")
	if got := s.Path(); got != "/tmp/media/videos/demo/480p15/Demo.mp4" {
		t.Fatalf("path = %q", got)
	}
}

func TestPathScannerWrappedPath(t *testing.T) {
	s := &pathScanner{}
	s.Scan("File ready at '/tmp/media/videos/a-very-long-scene-na")
	s.Scan("me/480p15/AVeryLongScene.mp4'")
	if got := s.Path(); got != "/tmp/media/videos/a-very-long-scene-name/480p15/AVeryLongScene.mp4" {
		t.Fatalf("wrapped path = %q", got)
	}
}

func TestPathScannerMostRecentWins(t *testing.T) {
	s := &pathScanner{}
	s.Scan("File ready at '/tmp/first.mp4'")
	s.Scan("File ready at '/tmp/second.gif'")
	if got := s.Path(); got != "/tmp/second.gif" {
		t.Fatalf("path = %q, want most recent", got)
	}
}

func TestPathScannerGivesUpAfterBoundedLines(t *testing.T) {
	s := &pathScanner{}
	s.Scan("File ready at")
	for i := 0; i < 10; i++ {
		s.Scan("noise without any path")
	}
	if got := s.Path(); got != "" {
		t.Fatalf("expected no path, got %q", got)
	}
	// A later complete announcement still succeeds.
	s.Scan("File ready at /tmp/out.svg")
	if got := s.Path(); got != "/tmp/out.svg" {
		t.Fatalf("path = %q", got)
	}
}

func TestPathScannerIgnoresUnknownExtensions(t *testing.T) {
	s := &pathScanner{}
	s.Scan("File ready at '/tmp/out.txt'")
	if got := s.Path(); got != "" {
		t.Fatalf("expected no path for unknown extension, got %q", got)
	}
}
