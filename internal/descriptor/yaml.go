package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
)

type moduleFile struct {
	Group     string      `yaml:"group"`
	Name      string      `yaml:"name"`
	Version   string      `yaml:"version"`
	Packaging string      `yaml:"packaging"`
	OutputDir string      `yaml:"outputDir"`
	Modules   []string    `yaml:"modules"`
	Parent    *parentFile `yaml:"parent"`
	Outputs   outputsFile `yaml:"outputs"`
}

type parentFile struct {
	Group   string `yaml:"group"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
}

type outputsFile struct {
	Main     *outputFile  `yaml:"main"`
	Attached []outputFile `yaml:"attached"`
}

type outputFile struct {
	Classifier string            `yaml:"classifier"`
	Extension  string            `yaml:"extension"`
	Path       string            `yaml:"path"`
	Properties map[string]string `yaml:"properties"`
}

// group and version fall back to the parent reference.
func (mf *moduleFile) identity() (group, version string) {
	group, version = mf.Group, mf.Version
	if mf.Parent != nil {
		if group == "" {
			group = mf.Parent.Group
		}
		if version == "" {
			version = mf.Parent.Version
		}
	}
	return group, version
}

var _ Loader = (*YAMLLoader)(nil)

// YAMLLoader loads module.yaml descriptors.
type YAMLLoader struct {
	fs   filesystem.FileSystem
	opts options
}

// NewYAMLLoader creates a YAMLLoader.
func NewYAMLLoader(fs filesystem.FileSystem, opts ...Option) *YAMLLoader {
	return &YAMLLoader{fs: fs, opts: newOptions(opts)}
}

// Load parses the module.yaml at path.
func (l *YAMLLoader) Load(path string) (*models.Module, error) {
	path, err := absPath(l.fs, path)
	if err != nil {
		return nil, err
	}

	mf, err := l.read(path)
	if err != nil {
		return nil, err
	}

	group, version := mf.identity()
	if mf.Name == "" || group == "" || version == "" {
		return nil, fmt.Errorf("%w: %s: name, group and version are required", errs.ErrDescriptor, path)
	}

	packaging := mf.Packaging
	if packaging == "" {
		packaging = models.DefaultExtension
	}

	baseDir := filepath.Dir(path)
	module := models.NewModule(models.ModuleID{
		GroupID:    group,
		ArtifactID: mf.Name,
		Packaging:  packaging,
		Version:    version,
	}, baseDir, path)

	module.OutputDir = mf.OutputDir
	if module.OutputDir == "" {
		module.OutputDir = l.opts.outputDir
	}
	module.Children = append([]string(nil), mf.Modules...)

	if mf.Parent != nil {
		parent, err := l.parentRef(baseDir, mf.Parent)
		if err != nil {
			return nil, err
		}
		module.Parent = parent
	}

	if main := mf.Outputs.Main; main != nil {
		if main.Extension != "" {
			module.Artifact.Coordinates.Extension = main.Extension
		}
		module.Artifact.Location = resolveIn(baseDir, main.Path)
		module.Artifact.Properties = main.Properties
	}

	for i, out := range mf.Outputs.Attached {
		extension := out.Extension
		if extension == "" {
			extension = models.DefaultExtension
		}
		if out.Classifier == "" && extension == module.Artifact.Coordinates.Extension {
			return nil, fmt.Errorf("%w: %s: attached output %d needs a classifier or a distinct extension", errs.ErrDescriptor, path, i)
		}

		module.Attach(models.NewArtifactState(models.Coordinates{
			GroupID:    group,
			ArtifactID: mf.Name,
			Extension:  extension,
			Classifier: out.Classifier,
			Version:    version,
		}, resolveIn(baseDir, out.Path), out.Properties))
	}

	return module, nil
}

// parentRef links the parent's descriptor only when it exists on disk and declares the
// referenced identity. A parent descriptor that exists but cannot be read is an error.
func (l *YAMLLoader) parentRef(baseDir string, p *parentFile) (*models.ParentRef, error) {
	ref := &models.ParentRef{ID: models.ModuleID{
		GroupID:    p.Group,
		ArtifactID: p.Name,
		Packaging:  models.PackagingDescriptor,
		Version:    p.Version,
	}}

	rel := p.Path
	if rel == "" {
		rel = ".."
	}
	candidate := resolveIn(baseDir, rel)
	if filepath.Ext(candidate) != ".yaml" {
		candidate = filepath.Join(candidate, ModuleFileName)
	}
	if !l.fs.Exists(candidate) {
		return ref, nil
	}

	mf, err := l.read(candidate)
	if err != nil {
		return nil, errs.Wrapf(err, "parent of %s", baseDir)
	}

	group, version := mf.identity()
	if mf.Name != p.Name || group != p.Group || version != p.Version {
		return ref, nil
	}

	ref.ID.Packaging = mf.Packaging
	if ref.ID.Packaging == "" {
		ref.ID.Packaging = models.DefaultExtension
	}
	ref.DescriptorPath = candidate
	return ref, nil
}

func (l *YAMLLoader) read(path string) (*moduleFile, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, errs.Categorize(errs.ErrDescriptor, err, "read %s", path)
	}

	var mf moduleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&mf); err != nil {
		if errs.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", errs.ErrDescriptor, path)
		}
		return nil, errs.Categorize(errs.ErrDescriptor, err, "parse %s", path)
	}

	return &mf, nil
}
