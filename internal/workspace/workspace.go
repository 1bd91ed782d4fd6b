package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"sceneforge/internal/logging"
)

// JobFileName is the fixed name the prepared source is written under. It is
// scoped to the job's unique directory, so no cross-job collision is possible.
const JobFileName = "scene.py"

// Workspace is a job-scoped scratch directory.
type Workspace struct {
	dir     string
	cleaned bool
}

// Create allocates a fresh workspace beneath root. The directory name embeds a
// random UUID; an existing directory with the same name means the UUID
// collided, which is treated as a fatal setup error rather than reused.
func Create(root string) (*Workspace, error) {
	if root == "" {
		return nil, errors.New("workspace root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ensure workspace root: %w", err)
	}
	dir := filepath.Join(root, "job-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// JobFile returns the path of the job source file inside the workspace.
func (w *Workspace) JobFile() string {
	return filepath.Join(w.dir, JobFileName)
}

// MediaDir returns the engine media directory inside the workspace, creating
// it if necessary.
func (w *Workspace) MediaDir() (string, error) {
	dir := filepath.Join(w.dir, "media")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	return dir, nil
}

// WriteJobFile writes the prepared source text verbatim to the job file.
func (w *Workspace) WriteJobFile(source string) error {
	if err := os.WriteFile(w.JobFile(), []byte(source), 0o644); err != nil {
		return fmt.Errorf("write job file: %w", err)
	}
	return nil
}

// Cleanup removes the workspace directory. It is idempotent and must only be
// called after any artifact bytes have been read into memory. Errors are
// logged as warnings and never returned.
func (w *Workspace) Cleanup(logger *slog.Logger) {
	if w == nil || w.cleaned {
		return
	}
	w.cleaned = true
	if err := os.RemoveAll(w.dir); err != nil {
		if logger == nil {
			logger = logging.NewNop()
		}
		logger.Warn("workspace cleanup failed",
			logging.Args(logging.String("dir", w.dir), logging.Error(err))...)
	}
}
