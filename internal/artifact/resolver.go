package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sceneforge/internal/media"
)

// ErrNotFound reports that no artifact could be located by any resolution
// step. Whether that is terminal for the job depends on fallback conversion.
var ErrNotFound = errors.New("no artifact found")

// Artifact is the terminal result of a render job: the produced bytes plus
// where they came from. The backing file may be deleted once the bytes are in
// memory.
type Artifact struct {
	Format     media.Format
	Bytes      []byte
	SourcePath string
}

// Query describes one resolution attempt.
type Query struct {
	Format media.Format
	// SceneName is the entry-point identifier; the engine derives media
	// subdirectories from it.
	SceneName string
	// WorkDir is the job workspace the engine ran in.
	WorkDir string
	// ReportedPath is the output file the engine announced, if any.
	ReportedPath string
	// DirTag is the resolution+fps media subdirectory tag, e.g. "480p15".
	DirTag string
}

// Resolve locates the produced artifact, short-circuiting on the first
// successful step: the self-reported path, then the candidate-directory
// search. Image sequences are packaged into a zip archive.
func Resolve(q Query) (*Artifact, error) {
	if reported := q.ReportedPath; reported != "" && strings.EqualFold(filepath.Ext(reported), q.Format.Ext()) {
		if bytes, ok := readNonEmpty(reported); ok {
			return &Artifact{Format: q.Format, Bytes: bytes, SourcePath: reported}, nil
		}
	}

	if q.Format.IsSequence() {
		return resolveSequence(q)
	}
	return resolveSingle(q)
}

// candidateDirs returns the ordered search locations for single-file output.
func candidateDirs(q Query) []string {
	roots := searchRoots(q.WorkDir)
	dirs := make([]string, 0, len(roots)*5)
	for _, root := range roots {
		dirs = append(dirs, root)
		dirs = append(dirs, filepath.Join(root, "media", "videos"))
		if q.SceneName != "" {
			dirs = append(dirs, filepath.Join(root, "media", "videos", q.SceneName))
			if q.DirTag != "" {
				dirs = append(dirs, filepath.Join(root, "media", "videos", q.SceneName, q.DirTag))
			}
			if q.Format == media.FormatVector {
				dirs = append(dirs, filepath.Join(root, "media", "designs", q.SceneName))
			}
		}
	}
	return dirs
}

func searchRoots(workDir string) []string {
	roots := make([]string, 0, 2)
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	if workDir != "" {
		roots = append(roots, workDir)
	}
	return roots
}

type entry struct {
	path    string
	modTime time.Time
}

// newer reports whether a should be preferred over b. Ties on modification
// time resolve to the lexicographically smaller path so repeated runs over
// the same snapshot always pick the same file.
func newer(a, b entry) bool {
	if !a.modTime.Equal(b.modTime) {
		return a.modTime.After(b.modTime)
	}
	return a.path < b.path
}

func resolveSingle(q Query) (*Artifact, error) {
	var best *entry
	seen := map[string]struct{}{}
	for _, dir := range candidateDirs(q) {
		for _, e := range collectFiles(dir, q.Format.Ext()) {
			if _, dup := seen[e.path]; dup {
				continue
			}
			seen[e.path] = struct{}{}
			if best == nil || newer(e, *best) {
				picked := e
				best = &picked
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no %s file in candidate directories", ErrNotFound, q.Format)
	}
	bytes, ok := readNonEmpty(best.path)
	if !ok {
		return nil, fmt.Errorf("%w: candidate %s unreadable or empty", ErrNotFound, best.path)
	}
	return &Artifact{Format: q.Format, Bytes: bytes, SourcePath: best.path}, nil
}

// collectFiles walks dir recursively and returns files with the given
// extension, excluding partial engine output.
func collectFiles(dir, ext string) []entry {
	var out []entry
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if isPartialName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isPartialName(d.Name()) || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		out = append(out, entry{path: path, modTime: info.ModTime()})
		return nil
	})
	return out
}

// isPartialName matches the engine's naming convention for incomplete output.
func isPartialName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "partial") || strings.HasSuffix(lower, ".tmp")
}

func readNonEmpty(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return nil, false
	}
	bytes, err := os.ReadFile(path)
	if err != nil || len(bytes) == 0 {
		return nil, false
	}
	return bytes, true
}

// resolveSequence finds the most recently modified directory containing the
// expected image files and packages them into a zip archive.
func resolveSequence(q Query) (*Artifact, error) {
	var bestDir *entry
	var bestFiles []string
	for _, dir := range sequenceDirs(q) {
		groups := imageGroups(dir, q.Format.Ext())
		for _, g := range groups {
			if bestDir == nil || newer(g.entry, *bestDir) {
				picked := g.entry
				bestDir = &picked
				bestFiles = g.files
			}
		}
	}
	if bestDir == nil || len(bestFiles) == 0 {
		return nil, fmt.Errorf("%w: no %s sequence in candidate directories", ErrNotFound, q.Format)
	}
	bytes, err := buildZip(bestFiles)
	if err != nil {
		return nil, fmt.Errorf("package sequence: %w", err)
	}
	return &Artifact{Format: q.Format, Bytes: bytes, SourcePath: bestDir.path}, nil
}

func sequenceDirs(q Query) []string {
	roots := searchRoots(q.WorkDir)
	dirs := make([]string, 0, len(roots)*3)
	for _, root := range roots {
		dirs = append(dirs, root)
		if q.SceneName != "" {
			dirs = append(dirs, filepath.Join(root, "media", "images", q.SceneName))
			dirs = append(dirs, filepath.Join(root, "media", "images", q.SceneName, "Animations"))
		}
	}
	return dirs
}

type imageGroup struct {
	entry
	files []string
}

// imageGroups returns dir itself plus each immediate subdirectory that holds
// matching image files, with the files sorted by name for stable archiving.
func imageGroups(dir, ext string) []imageGroup {
	var groups []imageGroup
	appendGroup := func(d string) {
		files := imageFiles(d, ext)
		if len(files) == 0 {
			return
		}
		info, err := os.Stat(d)
		if err != nil {
			return
		}
		groups = append(groups, imageGroup{
			entry: entry{path: d, modTime: info.ModTime()},
			files: files,
		})
	}
	appendGroup(dir)
	items, err := os.ReadDir(dir)
	if err != nil {
		return groups
	}
	for _, item := range items {
		if item.IsDir() && !isPartialName(item.Name()) {
			appendGroup(filepath.Join(dir, item.Name()))
		}
	}
	return groups
}

func imageFiles(dir, ext string) []string {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, item := range items {
		if item.IsDir() || isPartialName(item.Name()) {
			continue
		}
		if strings.EqualFold(filepath.Ext(item.Name()), ext) {
			files = append(files, filepath.Join(dir, item.Name()))
		}
	}
	// ReadDir returns sorted entries, so files is already name-ordered.
	return files
}
