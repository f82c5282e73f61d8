package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrNoInputs     = errors.New("batch: no input files matched")
	ErrOutputNotDir = errors.New("batch: multiple inputs require a directory output")
)

// ResolveInputs expands patterns into the list of files to convert.
// Patterns may use doublestar syntax ("src/**/*.png"); a plain path
// matches itself. Only regular files with a .png extension are kept,
// duplicates are dropped in first-seen order, and exclude (typically the
// donor file) is never returned.
func ResolveInputs(patterns []string, exclude string) ([]string, error) {
	var skip string
	if exclude != "" {
		skip = absPath(exclude)
	}

	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("batch: pattern %q: %w", p, err)
		}
		for _, m := range matches {
			key := absPath(m)
			if seen[key] {
				continue
			}
			seen[key] = true

			fi, err := os.Stat(m)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			if key == skip || !strings.EqualFold(filepath.Ext(m), ".png") {
				continue
			}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoInputs
	}
	return files, nil
}

// Target is where converted files are written: either a directory that
// receives one file per input, or a single output file.
type Target struct {
	Dir  string
	File string
}

// IsDir reports whether the target is a directory.
func (t Target) IsDir() bool {
	return t.Dir != ""
}

// PathFor returns the output path for input.
func (t Target) PathFor(input string) string {
	if t.IsDir() {
		return filepath.Join(t.Dir, filepath.Base(input))
	}
	return t.File
}

// ResolveOutput interprets out for n inputs. out names a directory when it
// ends with a path separator or already exists as a directory; a missing
// directory is created. Anything else is a single file, which is only
// valid for one input.
func ResolveOutput(out string, n int) (Target, error) {
	if out == "" {
		return Target{}, errors.New("batch: empty output path")
	}
	isDir := strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator))
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		isDir = true
	}

	if !isDir {
		if n > 1 {
			return Target{}, fmt.Errorf("%w: %q", ErrOutputNotDir, out)
		}
		return Target{File: out}, nil
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return Target{}, fmt.Errorf("batch: creating output directory: %w", err)
	}
	return Target{Dir: filepath.Clean(out)}, nil
}

func absPath(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return filepath.Clean(p)
}
