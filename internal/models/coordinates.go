package models

import (
	"fmt"
	"strings"
)

const (
	// DefaultExtension is assumed when coordinates omit the extension segment.
	DefaultExtension = "jar"

	// DescriptorExtension is the extension of a module's own descriptor artifact.
	DescriptorExtension = "pom"
)

// Coordinates identify a single artifact file.
//
// The canonical string form is group:artifact:extension[:classifier]:version.
type Coordinates struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string
	Version    string
}

// ParseCoordinates parses coordinates in one of the forms
//
//	group:artifact:version
//	group:artifact:extension:version
//	group:artifact:extension:classifier:version
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	var c Coordinates
	switch len(parts) {
	case 3:
		c = Coordinates{GroupID: parts[0], ArtifactID: parts[1], Extension: DefaultExtension, Version: parts[2]}
	case 4:
		c = Coordinates{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		c = Coordinates{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinates{}, fmt.Errorf("invalid coordinates %q (expected group:artifact[:extension[:classifier]]:version)", s)
	}

	if c.GroupID == "" || c.ArtifactID == "" || c.Extension == "" || c.Version == "" {
		return Coordinates{}, fmt.Errorf("invalid coordinates %q: group, artifact, extension and version are required", s)
	}

	return c, nil
}

// MustParseCoordinates is like ParseCoordinates but panics on error.
func MustParseCoordinates(s string) Coordinates {
	c, err := ParseCoordinates(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the canonical key of the coordinates.
func (c Coordinates) String() string {
	return c.VersionlessID() + ":" + c.Version
}

// VersionlessID returns group:artifact:extension[:classifier].
func (c Coordinates) VersionlessID() string {
	id := c.GroupID + ":" + c.ArtifactID + ":" + c.Extension
	if c.Classifier != "" {
		id += ":" + c.Classifier
	}
	return id
}

// BaseEquals reports whether both coordinates name the same file, including version.
func (c Coordinates) BaseEquals(other Coordinates) bool {
	return c.VersionlessID() == other.VersionlessID() && c.Version == other.Version
}

// Descriptor returns the coordinates of the descriptor artifact belonging to the same module.
// Descriptor coordinates map to themselves.
func (c Coordinates) Descriptor() Coordinates {
	return Coordinates{
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Extension:  DescriptorExtension,
		Version:    c.Version,
	}
}

// IsDescriptor reports whether the coordinates name a descriptor artifact.
func (c Coordinates) IsDescriptor() bool {
	return c == c.Descriptor()
}
