package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMetadataKind(t *testing.T) {
	for _, kind := range MetadataKinds {
		parsed, err := ParseMetadataKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}

	_, err := ParseMetadataKind("release")
	require.Error(t, err)
	require.Equal(t, "unknown", MetadataUnknown.String())
}

func TestArtifactState_AttachMetadata(t *testing.T) {
	s := NewArtifactState(MustParseCoordinates("g:a:1"), "", nil)

	require.NoError(t, s.AttachMetadata(NewMetadata(MetadataGroup, "<metadata/>")))
	require.NoError(t, s.AttachMetadata(NewMetadata(MetadataUnknown, "ignored")))
	require.NoError(t, s.AttachMetadata(nil))

	require.Equal(t, "<metadata/>", s.GroupMetadata.Content)
	require.Nil(t, s.ArtifactMetadata)
	require.Nil(t, s.SnapshotMetadata)
	require.Nil(t, s.Metadata(MetadataUnknown))

	err := s.AttachMetadata(NewMetadata(MetadataGroup, "again"))
	require.Error(t, err)
	require.Equal(t, "<metadata/>", s.Metadata(MetadataGroup).Content)
}

func TestArtifactState_Clone(t *testing.T) {
	props := map[string]string{"type": "jar"}
	s := NewArtifactState(MustParseCoordinates("g:a:1"), "/ws/target/a.jar", props)
	require.NoError(t, s.AttachMetadata(NewMetadata(MetadataSnapshot, "snap")))

	props["type"] = "mutated"
	require.Equal(t, "jar", s.Properties["type"])

	clone := s.Clone()
	require.Equal(t, s, clone)
	require.NotSame(t, s.SnapshotMetadata, clone.SnapshotMetadata)

	clone.Properties["type"] = "zip"
	require.Equal(t, "jar", s.Properties["type"])
}

func TestNewArtifactState_EmptyProperties(t *testing.T) {
	s := NewArtifactState(MustParseCoordinates("g:a:1"), "", map[string]string{})
	require.Nil(t, s.Properties)
	require.False(t, s.HasLocation())
}
