package artifact

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// buildZip packages the given files into an in-memory zip archive. Entries
// are stored under their base names in input order, which callers keep
// name-sorted for determinism.
func buildZip(paths []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		entry, err := writer.Create(filepath.Base(path))
		if err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", path, err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, fmt.Errorf("archive write %s: %w", path, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
