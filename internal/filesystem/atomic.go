package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
)

const tempAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// WriteFileAtomic writes data next to path under a temporary name and renames it into place,
// so readers never observe a truncated file. The parent directory must exist.
func WriteFileAtomic(fsys FileSystem, path string, data []byte, perm fs.FileMode) error {
	suffix, err := gonanoid.Generate(tempAlphabet, 8)
	if err != nil {
		return fmt.Errorf("failed to generate temp name: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp-"+suffix)
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}

	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// RemoveIfExists removes path and treats an already missing file as success.
func RemoveIfExists(fsys FileSystem, path string) error {
	if err := fsys.Remove(path); err != nil && !errs.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FileSystem, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// FindFileUp looks for filename in startDir and each of its ancestors and returns the
// nearest match.
func FindFileUp(fsys FileSystem, startDir, filename string) (string, bool) {
	dir := filepath.Clean(startDir)

	for {
		candidate := filepath.Join(dir, filename)
		if fsys.Exists(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
