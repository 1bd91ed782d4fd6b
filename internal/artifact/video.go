package artifact

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sceneforge/internal/media"
)

// maxVideoSearchDepth bounds the walk under shared roots (current directory,
// system temp) so the broad search stays cheap.
const maxVideoSearchDepth = 6

// FindIntermediateVideo locates a video file the engine produced even though
// another format was requested. The self-reported path wins when it is a
// video; otherwise a broad search runs under the working directory, the
// current directory, and the system temp root for the newest video whose name
// contains the entry-point identifier.
func FindIntermediateVideo(reportedPath, workDir, sceneName string) string {
	if reportedPath != "" && strings.EqualFold(filepath.Ext(reportedPath), media.FormatVideo.Ext()) {
		if _, ok := readNonEmpty(reportedPath); ok {
			return reportedPath
		}
	}

	roots := make([]string, 0, 3)
	if workDir != "" {
		roots = append(roots, workDir)
	}
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	roots = append(roots, os.TempDir())

	needle := strings.ToLower(sceneName)
	var best *entry
	for _, root := range roots {
		depth := strings.Count(filepath.Clean(root), string(filepath.Separator))
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if isPartialName(d.Name()) {
					return filepath.SkipDir
				}
				if strings.Count(filepath.Clean(path), string(filepath.Separator))-depth >= maxVideoSearchDepth {
					return filepath.SkipDir
				}
				return nil
			}
			name := strings.ToLower(d.Name())
			if !strings.HasSuffix(name, media.FormatVideo.Ext()) || isPartialName(name) {
				return nil
			}
			// Inside the job workspace every video is a candidate; under
			// shared roots the name must reference the scene.
			if root != workDir && (needle == "" || !strings.Contains(name, needle)) {
				return nil
			}
			info, err := d.Info()
			if err != nil || info.Size() == 0 {
				return nil
			}
			e := entry{path: path, modTime: info.ModTime()}
			if best == nil || newer(e, *best) {
				best = &e
			}
			return nil
		})
	}
	if best == nil {
		return ""
	}
	return best.path
}
