package models

import (
	"fmt"
	"path/filepath"
)

// PackagingDescriptor marks modules that produce nothing beyond their own descriptor.
const PackagingDescriptor = "pom"

// ModuleID is the full identity of a module. Two modules are the same iff their IDs are equal.
type ModuleID struct {
	GroupID    string
	ArtifactID string
	Packaging  string
	Version    string
}

// String returns group:artifact:packaging:version.
func (id ModuleID) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", id.GroupID, id.ArtifactID, id.Packaging, id.Version)
}

// ParentRef references a module's parent.
type ParentRef struct {
	ID ModuleID

	// DescriptorPath points at the parent's descriptor when the parent lives in the same
	// workspace on disk. It is empty for externally released parents.
	DescriptorPath string
}

// InWorkspace reports whether the parent can be loaded from disk.
func (p *ParentRef) InWorkspace() bool {
	return p != nil && p.DescriptorPath != ""
}

// Module is the in-memory representation of a module taking part in a build.
type Module struct {
	ID ModuleID

	// BaseDir is the absolute path to the module root
	BaseDir string

	// DescriptorPath is the absolute path to the module descriptor file
	DescriptorPath string

	// OutputDir is the build output directory, relative to BaseDir unless absolute
	OutputDir string

	// Children are declared child-module paths relative to BaseDir
	Children []string

	// Parent is nil for workspace roots
	Parent *ParentRef

	// Artifact is the module's main output
	Artifact *ArtifactState

	// Attached are supporting outputs (docs, sources, ...)
	Attached []*ArtifactState
}

// NewModule creates a module whose main artifact coordinates are derived from its identity.
func NewModule(id ModuleID, baseDir, descriptorPath string) *Module {
	extension := id.Packaging
	if extension == "" {
		extension = DefaultExtension
	}

	return &Module{
		ID:             id,
		BaseDir:        baseDir,
		DescriptorPath: descriptorPath,
		Artifact: NewArtifactState(Coordinates{
			GroupID:    id.GroupID,
			ArtifactID: id.ArtifactID,
			Extension:  extension,
			Version:    id.Version,
		}, "", nil),
	}
}

// BuildDir returns the absolute build output directory.
func (m *Module) BuildDir() string {
	if filepath.IsAbs(m.OutputDir) {
		return filepath.Clean(m.OutputDir)
	}
	return filepath.Join(m.BaseDir, m.OutputDir)
}

// DescriptorOnly reports whether the module produces no artifact beyond its descriptor.
func (m *Module) DescriptorOnly() bool {
	return m.ID.Packaging == PackagingDescriptor
}

// MainCoordinates returns the coordinates of the main output.
func (m *Module) MainCoordinates() Coordinates {
	if m.Artifact != nil {
		return m.Artifact.Coordinates
	}
	return Coordinates{GroupID: m.ID.GroupID, ArtifactID: m.ID.ArtifactID, Extension: m.ID.Packaging, Version: m.ID.Version}
}

// DescriptorCoordinates returns the coordinates of the module's descriptor artifact.
func (m *Module) DescriptorCoordinates() Coordinates {
	return m.MainCoordinates().Descriptor()
}

// ChildPaths returns the absolute paths of the declared child modules.
func (m *Module) ChildPaths() []string {
	paths := make([]string, 0, len(m.Children))
	for _, child := range m.Children {
		if filepath.IsAbs(child) {
			paths = append(paths, filepath.Clean(child))
			continue
		}
		paths = append(paths, filepath.Join(m.BaseDir, child))
	}
	return paths
}

// Attach appends a supporting output.
func (m *Module) Attach(artifact *ArtifactState) {
	m.Attached = append(m.Attached, artifact)
}

// ClearAttached removes all supporting outputs.
func (m *Module) ClearAttached() {
	m.Attached = nil
}

// ApplyState pushes a saved state into the module: descriptor location, main output location and
// a wholesale replacement of the attached outputs.
func (m *Module) ApplyState(state *ModuleState) {
	m.DescriptorPath = state.Descriptor.Location

	if m.Artifact == nil {
		m.Artifact = state.Primary.Clone()
	} else {
		m.Artifact.Location = state.Primary.Location
	}

	m.ClearAttached()
	for _, secondary := range state.Secondary {
		m.Attach(secondary.Clone())
	}
}
