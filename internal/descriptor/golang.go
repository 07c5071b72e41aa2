package descriptor

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
)

const (
	versionFileName = "version.txt"
	defaultVersion  = "0.0.0"

	// GoWorkGroup is the group of every go.work aggregator module.
	GoWorkGroup = "go.work"

	// GoModulePackaging is the main artifact extension of go.mod modules.
	GoModulePackaging = "zip"
)

var _ Loader = (*GoLoader)(nil)

// GoLoader loads go.work files as aggregators and go.mod files as their modules.
type GoLoader struct {
	fs   filesystem.FileSystem
	opts options
}

// NewGoLoader creates a GoLoader.
func NewGoLoader(fs filesystem.FileSystem, opts ...Option) *GoLoader {
	return &GoLoader{fs: fs, opts: newOptions(opts)}
}

// Load loads a go.work or go.mod file.
func (l *GoLoader) Load(path string) (*models.Module, error) {
	path, err := absPath(l.fs, path)
	if err != nil {
		return nil, err
	}

	switch filepath.Base(path) {
	case GoWorkFileName:
		return l.loadWork(path)
	case GoModFileName:
		return l.loadMod(path)
	default:
		return nil, fmt.Errorf("%w: %s is neither %s nor %s", errs.ErrDescriptor, path, GoWorkFileName, GoModFileName)
	}
}

// loadWork maps every enabled use entry to a child pointing at its go.mod.
func (l *GoLoader) loadWork(path string) (*models.Module, error) {
	workFile, err := l.parseWork(path)
	if err != nil {
		return nil, err
	}

	id, err := l.workID(path)
	if err != nil {
		return nil, err
	}

	rootDir := filepath.Dir(path)
	module := models.NewModule(id, rootDir, path)
	module.OutputDir = l.opts.outputDir

	for _, use := range workFile.Use {
		if !l.isEnabled(filepath.Join(rootDir, use.Path)) {
			continue
		}
		module.Children = append(module.Children, filepath.Join(use.Path, GoModFileName))
	}

	return module, nil
}

func (l *GoLoader) loadMod(path string) (*models.Module, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, errs.Categorize(errs.ErrDescriptor, err, "read %s", path)
	}

	modFile, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, errs.Categorize(errs.ErrDescriptor, err, "parse %s", path)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("%w: %s has no module directive", errs.ErrDescriptor, path)
	}

	projectDir := filepath.Dir(path)
	version, err := l.readVersion(projectDir)
	if err != nil {
		return nil, err
	}

	modulePath := modFile.Module.Mod.Path
	group, name := splitModulePath(modulePath)

	module := models.NewModule(models.ModuleID{
		GroupID:    group,
		ArtifactID: name,
		Packaging:  GoModulePackaging,
		Version:    version,
	}, projectDir, path)
	module.OutputDir = l.opts.outputDir

	parent, err := l.enclosingWork(projectDir)
	if err != nil {
		return nil, err
	}
	module.Parent = parent

	return module, nil
}

// enclosingWork returns the nearest go.work above dir if it uses dir, nil otherwise.
func (l *GoLoader) enclosingWork(dir string) (*models.ParentRef, error) {
	workPath, found := filesystem.FindFileUp(l.fs, dir, GoWorkFileName)
	if !found {
		return nil, nil
	}

	workFile, err := l.parseWork(workPath)
	if err != nil {
		return nil, err
	}

	rootDir := filepath.Dir(workPath)
	for _, use := range workFile.Use {
		if filepath.Join(rootDir, use.Path) != dir {
			continue
		}

		id, err := l.workID(workPath)
		if err != nil {
			return nil, err
		}
		return &models.ParentRef{ID: id, DescriptorPath: workPath}, nil
	}

	return nil, nil
}

func (l *GoLoader) parseWork(path string) (*modfile.WorkFile, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, errs.Categorize(errs.ErrDescriptor, err, "read %s", path)
	}

	workFile, err := modfile.ParseWork(path, data, nil)
	if err != nil {
		return nil, errs.Categorize(errs.ErrDescriptor, err, "parse %s", path)
	}
	return workFile, nil
}

func (l *GoLoader) workID(path string) (models.ModuleID, error) {
	rootDir := filepath.Dir(path)
	version, err := l.readVersion(rootDir)
	if err != nil {
		return models.ModuleID{}, err
	}

	return models.ModuleID{
		GroupID:    GoWorkGroup,
		ArtifactID: filepath.Base(rootDir),
		Packaging:  models.PackagingDescriptor,
		Version:    version,
	}, nil
}

// readVersion reads version.txt in dir. A missing file means 0.0.0.
func (l *GoLoader) readVersion(dir string) (string, error) {
	versionPath := filepath.Join(dir, versionFileName)
	if !l.fs.Exists(versionPath) {
		return defaultVersion, nil
	}

	data, err := l.fs.ReadFile(versionPath)
	if err != nil {
		return "", errs.Categorize(errs.ErrDescriptor, err, "read %s", versionPath)
	}

	version := strings.TrimSpace(string(data))
	if version == "" || strings.EqualFold(version, "false") {
		return defaultVersion, nil
	}
	if strings.ContainsAny(version, ": \t") {
		return "", fmt.Errorf("%w: invalid version %q in %s", errs.ErrDescriptor, version, versionPath)
	}
	return version, nil
}

// isEnabled reports false when version.txt contains "false".
func (l *GoLoader) isEnabled(dir string) bool {
	data, err := l.fs.ReadFile(filepath.Join(dir, versionFileName))
	if err != nil {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(string(data)), "false")
}

// splitModulePath splits a module path into group and name.
// e.g., "github.com/user/project" -> ("github.com/user", "project").
func splitModulePath(modulePath string) (string, string) {
	idx := strings.LastIndex(modulePath, "/")
	if idx < 0 {
		return modulePath, modulePath
	}
	return modulePath[:idx], modulePath[idx+1:]
}
