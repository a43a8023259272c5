package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoFilesFound marks an empty working set: a target that is
	// neither a document nor a directory, or a directory without a
	// single supported document. It is a reportable outcome, not a
	// crash.
	ErrNoFilesFound = errors.New("no subtitle documents found")
	// ErrUnsupportedFormat marks a single-file target whose extension is
	// not a supported subtitle format.
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
)

// Resolve turns a target path into the run's working set. A file target
// becomes a singleton set after a format check; a directory target yields
// its immediate supported entries, silently excluding everything else.
func (o *Orchestrator) Resolve(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoFilesFound, target)
		}
		return nil, fmt.Errorf("inspect target %q: %w", target, err)
	}

	if !info.IsDir() {
		if !o.supported(target) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, target)
		}
		return []string{target}, nil
	}

	entries, err := o.Store.ListEntries(target)
	if err != nil {
		return nil, err
	}
	docs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if o.supported(entry) {
			docs = append(docs, entry)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFilesFound, target)
	}
	return docs, nil
}

func (o *Orchestrator) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range o.Extensions {
		if ext == supported {
			return true
		}
	}
	return false
}
