package descriptor

import (
	"fmt"
	"io/fs"
	"path/filepath"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
)

const (
	// ModuleFileName is the native module descriptor.
	ModuleFileName = "module.yaml"

	// GoWorkFileName is loaded as a descriptor-only aggregator module.
	GoWorkFileName = "go.work"

	// GoModFileName is loaded as a single module of a Go workspace.
	GoModFileName = "go.mod"

	// DefaultOutputDir is used when neither the descriptor nor the options name one.
	DefaultOutputDir = "target"
)

// Loader turns a descriptor path into a live module.
type Loader interface {
	Load(path string) (*models.Module, error)
}

// Option configures descriptor loaders.
type Option func(*options)

type options struct {
	outputDir string
}

// WithOutputDir sets the output directory of modules that do not declare one.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.outputDir = dir
		}
	}
}

func newOptions(opts []Option) options {
	o := options{outputDir: DefaultOutputDir}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var _ Loader = (*FileLoader)(nil)

// FileLoader dispatches to the loader matching the descriptor file name.
type FileLoader struct {
	fs   filesystem.FileSystem
	yaml *YAMLLoader
	gow  *GoLoader
}

// New creates a FileLoader understanding module.yaml, go.work and go.mod descriptors.
func New(fs filesystem.FileSystem, opts ...Option) *FileLoader {
	return &FileLoader{
		fs:   fs,
		yaml: NewYAMLLoader(fs, opts...),
		gow:  NewGoLoader(fs, opts...),
	}
}

// Load loads the module described at path. A directory is resolved to the first of
// module.yaml, go.work and go.mod it contains.
func (l *FileLoader) Load(path string) (*models.Module, error) {
	file, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Base(file) {
	case GoWorkFileName, GoModFileName:
		return l.gow.Load(file)
	default:
		return l.yaml.Load(file)
	}
}

// Resolve returns the descriptor file for path, which may be a file or a directory.
func (l *FileLoader) Resolve(path string) (string, error) {
	path, err := absPath(l.fs, path)
	if err != nil {
		return "", err
	}

	if !filesystem.IsDir(l.fs, path) {
		if !l.fs.Exists(path) {
			return "", errs.Categorize(errs.ErrDescriptor, fs.ErrNotExist, "descriptor %s", path)
		}
		return path, nil
	}

	for _, name := range []string{ModuleFileName, GoWorkFileName, GoModFileName} {
		candidate := filepath.Join(path, name)
		if l.fs.Exists(candidate) {
			return candidate, nil
		}
	}

	return "", errs.Categorize(errs.ErrDescriptor, fs.ErrNotExist, "no %s, %s or %s in %s", ModuleFileName, GoWorkFileName, GoModFileName, path)
}

func absPath(fsys filesystem.FileSystem, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	cwd, err := fsys.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}

func resolveIn(baseDir, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, filepath.FromSlash(path))
}
