package render_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/history"
	"sceneforge/internal/logging"
	"sceneforge/internal/media"
	"sceneforge/internal/render"
	"sceneforge/internal/scene"
	"sceneforge/internal/services"
	"sceneforge/internal/services/ffmpeg"
	"sceneforge/internal/services/manim"
	"sceneforge/internal/testsupport"
)

const sceneSource = `class Demo(Scene):
    def construct(self):
        self.play(Create(Circle()))
        self.play(Create(Square()))
`

type engineStub struct {
	lines   []string
	exitErr error
	// plant runs before output is emitted, to drop artifact files into the
	// job workspace.
	plant func(workDir string)

	gotArgs    []string
	gotWorkDir string
	jobFile    string
}

func (s *engineStub) Run(_ context.Context, _ string, args []string, workDir string, onLine func(string)) error {
	s.gotArgs = args
	s.gotWorkDir = workDir
	if data, err := os.ReadFile(filepath.Join(workDir, "scene.py")); err == nil {
		s.jobFile = string(data)
	}
	if s.plant != nil {
		s.plant(workDir)
	}
	for _, line := range s.lines {
		onLine(line)
	}
	return s.exitErr
}

type converterStub struct {
	gifBytes []byte
	err      error
	called   bool
}

func (s *converterStub) Run(_ context.Context, _ string, args []string) ([]byte, error) {
	s.called = true
	if s.err != nil {
		return []byte("converter stderr"), s.err
	}
	dest := args[len(args)-1]
	if err := os.WriteFile(dest, s.gifBytes, 0o644); err != nil {
		return nil, err
	}
	return nil, nil
}

func newTestService(t *testing.T, engine *engineStub, conv *converterStub) (*render.Service, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)

	client, err := manim.New("manim", 0, manim.WithExecutor(engine))
	if err != nil {
		t.Fatalf("engine client: %v", err)
	}
	opts := []render.Option{render.WithEngine(client)}
	if conv != nil {
		opts = append(opts, render.WithConverter(
			ffmpeg.NewConverter("ffmpeg", 480, 15, ffmpeg.WithExecutor(conv)),
		))
	}
	svc, err := render.NewService(cfg, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, cfg.Paths.WorkspaceRoot
}

func assertWorkspaceRemoved(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read workspace root: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "job-") {
			t.Fatalf("workspace %s not cleaned up", e.Name())
		}
	}
}

func plantVideo(relPath string) func(string) {
	return func(workDir string) {
		path := filepath.Join(workDir, relPath)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			panic(err)
		}
		if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
			panic(err)
		}
	}
}

func TestRenderSuccessWithAnimationProgress(t *testing.T) {
	engine := &engineStub{
		lines: []string{
			"Animation 1 out of 2",
			"Animation 2 out of 2",
		},
		plant: plantVideo("media/videos/Demo/480p15/Demo.mp4"),
	}
	svc, root := newTestService(t, engine, nil)

	var fractions []float64
	result, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatVideo,
		Quality:    "480p",
	}, func(u manim.ProgressUpdate) {
		fractions = append(fractions, u.Fraction)
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if result.Artifact == nil || string(result.Artifact.Bytes) != "video-bytes" {
		t.Fatalf("artifact = %+v", result.Artifact)
	}
	if result.SceneName != "Demo" {
		t.Fatalf("scene = %q", result.SceneName)
	}
	if len(fractions) == 0 || fractions[len(fractions)-1] != 1.0 {
		t.Fatalf("fractions = %v, want final 1.0", fractions)
	}
	if engine.gotArgs[0] != "scene.py" || engine.gotArgs[1] != "Demo" {
		t.Fatalf("engine args = %v", engine.gotArgs)
	}
	if !strings.Contains(engine.jobFile, "from manim import *") ||
		!strings.Contains(engine.jobFile, "config.frame_rate = 15") {
		t.Fatalf("job file preamble missing:\n%s", engine.jobFile)
	}
	assertWorkspaceRemoved(t, root)
}

func TestRenderFallbackConversion(t *testing.T) {
	engine := &engineStub{
		lines: []string{"Rendering done"},
		plant: plantVideo("media/videos/Demo/480p15/Demo.mp4"),
	}
	conv := &converterStub{gifBytes: []byte("gif-bytes")}
	svc, root := newTestService(t, engine, conv)

	result, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatAnimatedImage,
		Quality:    "480p",
	}, nil)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !conv.called {
		t.Fatal("converter was not invoked")
	}
	if !result.Converted {
		t.Fatal("result not marked as converted")
	}
	if result.Artifact == nil || result.Artifact.Format != media.FormatAnimatedImage {
		t.Fatalf("artifact = %+v", result.Artifact)
	}
	if string(result.Artifact.Bytes) != "gif-bytes" {
		t.Fatalf("bytes = %q", result.Artifact.Bytes)
	}
	if !strings.Contains(strings.ToLower(result.Status), "converted") {
		t.Fatalf("status = %q, want conversion notice", result.Status)
	}
	assertWorkspaceRemoved(t, root)
}

func TestRenderWithoutDeclarationSkipsAudio(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	engine := &engineStub{
		plant: plantVideo("media/videos/" + scene.DefaultName + "/480p15/out.mp4"),
	}
	svc, root := newTestService(t, engine, nil)

	result, err := svc.Render(context.Background(), render.Request{
		SourceText: "self.play(Create(Circle()))\n",
		Format:     media.FormatVideo,
		Quality:    "480p",
		AudioPath:  audio,
	}, nil)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if result.SceneName != scene.DefaultName {
		t.Fatalf("scene = %q, want default", result.SceneName)
	}
	if strings.Contains(engine.jobFile, "attach_audio") {
		t.Fatalf("audio directive injected without a declaration:\n%s", engine.jobFile)
	}
	if result.Artifact == nil {
		t.Fatal("expected artifact")
	}
	assertWorkspaceRemoved(t, root)
}

func TestRenderInjectsAudioDirective(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	engine := &engineStub{
		plant: plantVideo("media/videos/Demo/480p15/Demo.mp4"),
	}
	svc, _ := newTestService(t, engine, nil)

	_, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatVideo,
		Quality:    "480p",
		AudioPath:  audio,
	}, nil)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(engine.jobFile, `@attach_audio("track.mp3")`) {
		t.Fatalf("audio directive missing:\n%s", engine.jobFile)
	}
	directiveAt := strings.Index(engine.jobFile, "@attach_audio")
	classAt := strings.Index(engine.jobFile, "class Demo")
	if directiveAt > classAt {
		t.Fatal("directive not placed above the declaration")
	}
}

func TestRenderNonZeroExitStillResolves(t *testing.T) {
	engine := &engineStub{
		exitErr: &exec.ExitError{},
		plant:   plantVideo("media/videos/Demo/480p15/Demo.mp4"),
	}
	svc, root := newTestService(t, engine, nil)

	result, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatVideo,
		Quality:    "480p",
	}, nil)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if result.Artifact == nil {
		t.Fatal("expected artifact despite non-zero exit")
	}
	assertWorkspaceRemoved(t, root)
}

func TestRenderEngineFailureReportsTranscript(t *testing.T) {
	engine := &engineStub{
		lines:   []string{"Traceback (most recent call last):", "NameError: name 'Circl' is not defined"},
		exitErr: &exec.ExitError{},
	}
	svc, root := newTestService(t, engine, nil)

	result, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatVideo,
		Quality:    "480p",
	}, nil)
	if !errors.Is(err, services.ErrEngine) {
		t.Fatalf("expected engine failure, got %v", err)
	}
	if result.Artifact != nil {
		t.Fatal("expected nil artifact")
	}
	if !strings.Contains(result.Status, "NameError") {
		t.Fatalf("status %q lacks transcript excerpt", result.Status)
	}
	assertWorkspaceRemoved(t, root)
}

func TestRenderConversionFailureIsDistinct(t *testing.T) {
	engine := &engineStub{
		plant: plantVideo("media/videos/Demo/480p15/Demo.mp4"),
	}
	conv := &converterStub{err: errors.New("exit status 1")}
	svc, root := newTestService(t, engine, conv)

	result, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatAnimatedImage,
		Quality:    "480p",
	}, nil)
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected conversion failure, got %v", err)
	}
	if errors.Is(err, services.ErrEngine) {
		t.Fatal("conversion failure must not be an engine failure")
	}
	if result.Artifact != nil {
		t.Fatal("expected nil artifact")
	}
	assertWorkspaceRemoved(t, root)
}

func TestRenderRejectsEmptySource(t *testing.T) {
	svc, _ := newTestService(t, &engineStub{}, nil)
	_, err := svc.Render(context.Background(), render.Request{
		SourceText: "   ",
		Format:     media.FormatVideo,
	}, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistoryEnabled())
	store := testsupport.MustOpenStore(t, cfg)

	engine := &engineStub{
		plant: plantVideo("media/videos/Demo/480p15/Demo.mp4"),
	}
	client, err := manim.New("manim", 0, manim.WithExecutor(engine))
	if err != nil {
		t.Fatalf("engine client: %v", err)
	}
	svc, err := render.NewService(cfg, logging.NewNop(),
		render.WithEngine(client), render.WithHistory(store))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Render(context.Background(), render.Request{
		SourceText: sceneSource,
		Format:     media.FormatVideo,
		Quality:    "480p",
	}, nil); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	entries, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries, want 1", len(entries))
	}
	if entries[0].Status != history.StatusSucceeded || entries[0].SceneName != "Demo" {
		t.Fatalf("entry = %+v", entries[0])
	}
	if entries[0].ArtifactBytes == 0 {
		t.Fatal("artifact size not recorded")
	}
}
