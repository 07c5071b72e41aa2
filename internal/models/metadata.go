package models

import "fmt"

// MetadataKind classifies a repository metadata document.
type MetadataKind string

const (
	MetadataUnknown  MetadataKind = ""
	MetadataArtifact MetadataKind = "artifact"
	MetadataGroup    MetadataKind = "group"
	MetadataSnapshot MetadataKind = "snapshot"
)

// MetadataKinds lists the kinds an artifact state can carry, in slot order.
var MetadataKinds = []MetadataKind{MetadataArtifact, MetadataGroup, MetadataSnapshot}

// IsValid checks if the kind is one of the three attachable kinds
func (k MetadataKind) IsValid() bool {
	switch k {
	case MetadataArtifact, MetadataGroup, MetadataSnapshot:
		return true
	default:
		return false
	}
}

// String returns the string representation of MetadataKind
func (k MetadataKind) String() string {
	if k == MetadataUnknown {
		return "unknown"
	}
	return string(k)
}

// ParseMetadataKind parses a string into a MetadataKind
func ParseMetadataKind(s string) (MetadataKind, error) {
	k := MetadataKind(s)
	if !k.IsValid() {
		return MetadataUnknown, fmt.Errorf("invalid metadata kind: %s (must be artifact, group, or snapshot)", s)
	}
	return k, nil
}

// Metadata is an opaque repository metadata document.
//
// Artifact metadata is scoped to one artifact, group metadata to the whole module family and
// snapshot metadata to the artifact's snapshot timeline. Content is never interpreted.
type Metadata struct {
	Kind    MetadataKind
	Content string
}

// NewMetadata creates a metadata document of the given kind.
func NewMetadata(kind MetadataKind, content string) *Metadata {
	return &Metadata{Kind: kind, Content: content}
}
