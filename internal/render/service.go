package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"sceneforge/internal/artifact"
	"sceneforge/internal/config"
	"sceneforge/internal/fileutil"
	"sceneforge/internal/history"
	"sceneforge/internal/logging"
	"sceneforge/internal/media"
	"sceneforge/internal/scene"
	"sceneforge/internal/services"
	"sceneforge/internal/services/ffmpeg"
	"sceneforge/internal/services/manim"
	"sceneforge/internal/workspace"
)

// lockFileName guards the workspace root against concurrent jobs.
const lockFileName = ".render.lock"

// ProgressFunc receives live progress updates during the engine run.
type ProgressFunc func(manim.ProgressUpdate)

// Service runs render jobs. One job is in flight at a time per workspace
// root; Render blocks until the job completes or fails.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    *manim.Client
	converter *ffmpeg.Converter
	store     *history.Store
}

// Option adjusts service construction.
type Option func(*Service)

// WithEngine substitutes the engine client, primarily for tests.
func WithEngine(client *manim.Client) Option {
	return func(s *Service) { s.engine = client }
}

// WithConverter substitutes the fallback converter, primarily for tests.
func WithConverter(conv *ffmpeg.Converter) Option {
	return func(s *Service) { s.converter = conv }
}

// WithHistory attaches a render history store. Recording is best-effort.
func WithHistory(store *history.Store) Option {
	return func(s *Service) { s.store = store }
}

// NewService builds a render service from configuration.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	svc := &Service{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.engine == nil {
		client, err := manim.New(cfg.Engine.Binary, cfg.Engine.RenderTimeout)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "render", "engine", err.Error(), nil)
		}
		svc.engine = client
	}
	if svc.converter == nil {
		svc.converter = ffmpeg.NewConverter(cfg.Converter.Binary, cfg.Converter.GIFWidth, cfg.Converter.GIFFPS)
	}
	return svc, nil
}

// Render executes one job. The returned Result always carries a non-empty
// Status; Artifact is nil exactly when err is non-nil.
func (s *Service) Render(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error) {
	started := time.Now()
	req.normalize()
	if err := req.validate(); err != nil {
		return &Result{Status: err.Error()}, err
	}

	preset := media.LookupPreset(req.Quality)
	decl := scene.Extract(req.SourceText)
	sceneName := scene.DefaultName
	if decl.Found() {
		sceneName = decl.Name
	}
	logger := s.logger.With(
		logging.String("scene", sceneName),
		logging.String("format", string(req.Format)),
		logging.String("quality", preset.Tier),
	)

	unlock, err := s.acquireLock()
	if err != nil {
		return s.fail(ctx, req, preset, sceneName, started, err)
	}
	defer unlock()

	ws, err := workspace.Create(s.cfg.Paths.WorkspaceRoot)
	if err != nil {
		wrapped := services.Wrap(services.ErrSetup, "render", "workspace", "create job workspace", err)
		return s.fail(ctx, req, preset, sceneName, started, wrapped)
	}
	// Artifact bytes are always in memory before Render returns, so the
	// deferred removal never races a pending read.
	defer ws.Cleanup(logger)

	source := req.SourceText
	if req.AudioPath != "" && !scene.HasAudioDirective(source) {
		source = s.attachAudio(logger, ws, source, decl, req.AudioPath)
	}

	mediaDir, err := ws.MediaDir()
	if err != nil {
		wrapped := services.Wrap(services.ErrSetup, "render", "workspace", "create media directory", err)
		return s.fail(ctx, req, preset, sceneName, started, wrapped)
	}

	final := buildJobSource(source, mediaDir, req.BackgroundColor, effectiveFrameRate(req, preset))
	if err := ws.WriteJobFile(final); err != nil {
		wrapped := services.Wrap(services.ErrSetup, "render", "prepare", "write job file", err)
		return s.fail(ctx, req, preset, sceneName, started, wrapped)
	}

	inv := manim.NewInvocation(s.cfg.Engine.Binary, manim.InvocationParams{
		JobFile:   workspace.JobFileName,
		SceneName: sceneName,
		Preset:    preset,
		Format:    req.Format,
		FPS:       req.FPS,
		MediaDir:  mediaDir,
	})

	logger.Info("starting engine", logging.String("binary", inv.Binary))
	outcome, err := s.engine.Render(ctx, inv, ws.Dir(), onProgress)
	if err != nil {
		wrapped := services.Wrap(services.ErrEngine, "render", "engine", "run engine", err)
		return s.fail(ctx, req, preset, sceneName, started, wrapped)
	}
	if outcome.ExitErr != nil {
		// Not fatal on its own; discovery decides the job's fate.
		logger.Warn("engine exited abnormally", logging.Error(outcome.ExitErr))
	}

	art, resolveErr := artifact.Resolve(artifact.Query{
		Format:       req.Format,
		SceneName:    sceneName,
		WorkDir:      ws.Dir(),
		ReportedPath: outcome.ReportedPath,
		DirTag:       preset.DirTag(req.FPS),
	})
	if resolveErr == nil {
		logger.Info("artifact resolved",
			logging.String("source", art.SourcePath),
			logging.Int("bytes", len(art.Bytes)),
		)
		result := &Result{
			Artifact:  art,
			Status:    fmt.Sprintf("Render finished: %s artifact (%d bytes)", req.Format, len(art.Bytes)),
			SceneName: sceneName,
		}
		s.record(ctx, req, preset, sceneName, started, result, nil)
		return result, nil
	}

	if req.Format == media.FormatAnimatedImage {
		if video := artifact.FindIntermediateVideo(outcome.ReportedPath, ws.Dir(), sceneName); video != "" {
			logger.Info("falling back to video conversion", logging.String("video", video))
			return s.convertFallback(ctx, req, preset, sceneName, started, video)
		}
	}

	wrapped := services.Wrap(services.ErrEngine, "render", "resolve",
		fmt.Sprintf("no %s artifact produced; engine output: %s", req.Format, outcome.Transcript.Excerpt()), resolveErr)
	return s.fail(ctx, req, preset, sceneName, started, wrapped)
}

// acquireLock takes the single in-flight job lock under the workspace root.
func (s *Service) acquireLock() (func(), error) {
	root := s.cfg.Paths.WorkspaceRoot
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrSetup, "render", "lock", "create workspace root", err)
	}
	lock := flock.New(filepath.Join(root, lockFileName))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrSetup, "render", "lock", "acquire job lock", err)
	}
	if !acquired {
		return nil, services.Wrap(services.ErrSetup, "render", "lock", "another render is already in flight", nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("release job lock", logging.Error(err))
		}
	}, nil
}

// attachAudio copies the audio file into the workspace and injects the
// attachment directive above the entry-point declaration. Any failure is
// logged and the job proceeds without audio.
func (s *Service) attachAudio(logger *slog.Logger, ws *workspace.Workspace, source string, decl scene.Declaration, audioPath string) string {
	if !decl.Found() {
		logger.Warn("entry-point declaration not found; audio attachment skipped",
			logging.String("audio", audioPath),
		)
		return source
	}
	target := filepath.Join(ws.Dir(), filepath.Base(audioPath))
	if err := fileutil.CopyFile(audioPath, target); err != nil {
		logger.Warn("copy audio into workspace failed; audio attachment skipped",
			logging.String("audio", audioPath),
			logging.Error(err),
		)
		return source
	}
	injected, ok := scene.InjectAudioDirective(source, decl, filepath.Base(audioPath))
	if !ok {
		logger.Warn("audio directive injection failed; proceeding without audio")
		return source
	}
	return injected
}

func (s *Service) convertFallback(ctx context.Context, req Request, preset media.Preset, sceneName string, started time.Time, video string) (*Result, error) {
	bytes, err := s.converter.ConvertToGIF(ctx, video)
	if err != nil {
		return s.fail(ctx, req, preset, sceneName, started, err)
	}
	result := &Result{
		Artifact: &artifact.Artifact{
			Format:     media.FormatAnimatedImage,
			Bytes:      bytes,
			SourcePath: video,
		},
		Status:    fmt.Sprintf("Engine produced a video; converted to %s (%d bytes)", media.FormatAnimatedImage, len(bytes)),
		SceneName: sceneName,
		Converted: true,
	}
	s.record(ctx, req, preset, sceneName, started, result, nil)
	return result, nil
}

func (s *Service) fail(ctx context.Context, req Request, preset media.Preset, sceneName string, started time.Time, err error) (*Result, error) {
	result := &Result{Status: err.Error(), SceneName: sceneName}
	s.record(ctx, req, preset, sceneName, started, result, err)
	return result, err
}

// record persists the job outcome when a history store is attached.
func (s *Service) record(ctx context.Context, req Request, preset media.Preset, sceneName string, started time.Time, result *Result, jobErr error) {
	if s.store == nil {
		return
	}
	entry := history.Entry{
		SceneName: sceneName,
		Format:    string(req.Format),
		Quality:   preset.Tier,
		FPS:       req.FPS,
		Status:    history.StatusSucceeded,
		Duration:  time.Since(started),
	}
	switch {
	case jobErr != nil:
		entry.Status = history.StatusFailed
		entry.Detail = jobErr.Error()
	case result.Converted:
		entry.Status = history.StatusConverted
	}
	if result.Artifact != nil {
		entry.ArtifactBytes = int64(len(result.Artifact.Bytes))
	}
	if _, err := s.store.Record(ctx, entry); err != nil {
		s.logger.Warn("record render history", logging.Error(err))
	}
}

// effectiveFrameRate is the frame rate written into the job-file preamble:
// the requested (or preset) rate scaled by the speed multiplier.
func effectiveFrameRate(req Request, preset media.Preset) int {
	fps := req.FPS
	if fps <= 0 {
		fps = preset.FPS
	}
	rate := int(float64(fps) * req.SpeedMultiplier)
	if rate < 1 {
		rate = 1
	}
	return rate
}
