package workspace

import (
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jakoblorz/reactorstate/internal/descriptor"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
)

const (
	defaultGroup   = "com.example"
	defaultVersion = "1.0.0"
)

// WorkspaceBuilder helps create test workspaces of module.yaml descriptors
type WorkspaceBuilder struct {
	fs      *filesystem.MockFileSystem
	root    string
	modules []*ModuleConfig
}

// ModuleConfig represents a module descriptor
type ModuleConfig struct {
	Name      string
	Path      string
	Group     string
	Version   string
	Packaging string
	Children  []string

	parent         string
	externalParent *parentConfig
	main           *outputConfig
	attached       []outputConfig
}

type moduleDocument struct {
	Group     string         `yaml:"group,omitempty"`
	Name      string         `yaml:"name"`
	Version   string         `yaml:"version,omitempty"`
	Packaging string         `yaml:"packaging,omitempty"`
	Modules   []string       `yaml:"modules,omitempty"`
	Parent    *parentConfig  `yaml:"parent,omitempty"`
	Outputs   *outputsConfig `yaml:"outputs,omitempty"`
}

type parentConfig struct {
	Group   string `yaml:"group"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Path    string `yaml:"path,omitempty"`
}

type outputsConfig struct {
	Main     *outputConfig  `yaml:"main,omitempty"`
	Attached []outputConfig `yaml:"attached,omitempty"`
}

type outputConfig struct {
	Classifier string `yaml:"classifier,omitempty"`
	Extension  string `yaml:"extension,omitempty"`
	Path       string `yaml:"path,omitempty"`
}

// NewWorkspaceBuilder creates a new WorkspaceBuilder
func NewWorkspaceBuilder(root string) *WorkspaceBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.SetCurrentDir(root)

	return &WorkspaceBuilder{
		fs:   fs,
		root: root,
	}
}

// AddModule adds a module at path (relative to the root) declaring the given child paths.
// Modules with children are descriptor-only aggregators.
func (wb *WorkspaceBuilder) AddModule(name, path string, children ...string) *WorkspaceBuilder {
	packaging := "jar"
	if len(children) > 0 {
		packaging = "pom"
	}

	wb.modules = append(wb.modules, &ModuleConfig{
		Name:      name,
		Path:      path,
		Group:     defaultGroup,
		Version:   defaultVersion,
		Packaging: packaging,
		Children:  children,
	})
	return wb
}

// SetParent makes parent the parent of module
func (wb *WorkspaceBuilder) SetParent(module, parent string) *WorkspaceBuilder {
	if m := wb.find(module); m != nil {
		m.parent = parent
	}
	return wb
}

// SetExternalParent references a parent that does not exist in the workspace
func (wb *WorkspaceBuilder) SetExternalParent(module, group, name, version string) *WorkspaceBuilder {
	if m := wb.find(module); m != nil {
		m.externalParent = &parentConfig{Group: group, Name: name, Version: version}
	}
	return wb
}

// SetVersion sets the version of a module
func (wb *WorkspaceBuilder) SetVersion(module, version string) *WorkspaceBuilder {
	if m := wb.find(module); m != nil {
		m.Version = version
	}
	return wb
}

// SetPackaging sets the packaging of a module
func (wb *WorkspaceBuilder) SetPackaging(module, packaging string) *WorkspaceBuilder {
	if m := wb.find(module); m != nil {
		m.Packaging = packaging
	}
	return wb
}

// SetMainOutput declares the main output of a module, relative to the module directory
func (wb *WorkspaceBuilder) SetMainOutput(module, path string) *WorkspaceBuilder {
	if m := wb.find(module); m != nil {
		m.main = &outputConfig{Path: path}
	}
	return wb
}

// AddAttachedOutput declares a supporting output of a module
func (wb *WorkspaceBuilder) AddAttachedOutput(module, classifier, path string) *WorkspaceBuilder {
	if m := wb.find(module); m != nil {
		m.attached = append(m.attached, outputConfig{Classifier: classifier, Path: path})
	}
	return wb
}

// AddFile adds a plain file relative to the root, e.g. a produced output
func (wb *WorkspaceBuilder) AddFile(path, content string) *WorkspaceBuilder {
	wb.fs.AddFile(filepath.Join(wb.root, path), []byte(content))
	return wb
}

// Dir returns the absolute directory of a module
func (wb *WorkspaceBuilder) Dir(module string) string {
	if m := wb.find(module); m != nil {
		return filepath.Join(wb.root, m.Path)
	}
	return ""
}

// DescriptorPath returns the absolute module.yaml path of a module
func (wb *WorkspaceBuilder) DescriptorPath(module string) string {
	return filepath.Join(wb.Dir(module), descriptor.ModuleFileName)
}

// Build writes every module.yaml and returns the filesystem
func (wb *WorkspaceBuilder) Build() *filesystem.MockFileSystem {
	for _, m := range wb.modules {
		doc := moduleDocument{
			Group:     m.Group,
			Name:      m.Name,
			Version:   m.Version,
			Packaging: m.Packaging,
			Modules:   m.Children,
			Parent:    m.externalParent,
		}

		if p := wb.find(m.parent); p != nil {
			rel, err := filepath.Rel(filepath.Join(wb.root, m.Path), filepath.Join(wb.root, p.Path))
			if err != nil {
				panic(err)
			}
			doc.Parent = &parentConfig{Group: p.Group, Name: p.Name, Version: p.Version, Path: filepath.ToSlash(rel)}
		}

		if m.main != nil || len(m.attached) > 0 {
			doc.Outputs = &outputsConfig{Main: m.main, Attached: m.attached}
		}

		data, err := yaml.Marshal(doc)
		if err != nil {
			panic(err)
		}
		wb.fs.AddFile(wb.DescriptorPath(m.Name), data)
	}

	return wb.fs
}

// FileSystem returns the mock filesystem
func (wb *WorkspaceBuilder) FileSystem() *filesystem.MockFileSystem {
	return wb.fs
}

func (wb *WorkspaceBuilder) find(name string) *ModuleConfig {
	for _, m := range wb.modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}
