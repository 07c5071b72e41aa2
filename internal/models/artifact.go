package models

import "fmt"

// Artifact describes a single output file.
type Artifact struct {
	// Coordinates uniquely identify the artifact
	Coordinates Coordinates

	// Location is the absolute path to the file; empty if not produced yet
	Location string

	// Properties carry arbitrary descriptor metadata (e.g. "type")
	Properties map[string]string
}

// HasLocation reports whether the artifact has been produced.
func (a *Artifact) HasLocation() bool {
	return a.Location != ""
}

// ArtifactState is an artifact plus its optional repository metadata documents.
type ArtifactState struct {
	Artifact

	ArtifactMetadata *Metadata
	GroupMetadata    *Metadata
	SnapshotMetadata *Metadata
}

// NewArtifactState creates an artifact state. Properties are copied; an empty map is stored as nil.
func NewArtifactState(coords Coordinates, location string, properties map[string]string) *ArtifactState {
	return &ArtifactState{
		Artifact: Artifact{
			Coordinates: coords,
			Location:    location,
			Properties:  copyProperties(properties),
		},
	}
}

// ID returns the canonical coordinates key.
func (s *ArtifactState) ID() string {
	return s.Coordinates.String()
}

// AttachMetadata stores a metadata document in the slot matching its kind.
// Unknown kinds are ignored. Attaching a second document of the same kind fails.
func (s *ArtifactState) AttachMetadata(md *Metadata) error {
	if md == nil || !md.Kind.IsValid() {
		return nil
	}

	slot := s.metadataSlot(md.Kind)
	if *slot != nil {
		return fmt.Errorf("%s metadata already attached to %s", md.Kind, s.ID())
	}
	*slot = md
	return nil
}

// Metadata returns the document of the given kind, or nil.
func (s *ArtifactState) Metadata(kind MetadataKind) *Metadata {
	if !kind.IsValid() {
		return nil
	}
	return *s.metadataSlot(kind)
}

// Clone returns a deep copy of the artifact state.
func (s *ArtifactState) Clone() *ArtifactState {
	if s == nil {
		return nil
	}

	clone := NewArtifactState(s.Coordinates, s.Location, s.Properties)
	for _, kind := range MetadataKinds {
		if md := s.Metadata(kind); md != nil {
			_ = clone.AttachMetadata(NewMetadata(md.Kind, md.Content))
		}
	}
	return clone
}

func (s *ArtifactState) metadataSlot(kind MetadataKind) **Metadata {
	switch kind {
	case MetadataArtifact:
		return &s.ArtifactMetadata
	case MetadataGroup:
		return &s.GroupMetadata
	default:
		return &s.SnapshotMetadata
	}
}

func copyProperties(properties map[string]string) map[string]string {
	if len(properties) == 0 {
		return nil
	}

	out := make(map[string]string, len(properties))
	for k, v := range properties {
		out[k] = v
	}
	return out
}
