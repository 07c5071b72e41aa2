package persistence

import (
	"encoding/json"
	"io"

	"github.com/jakoblorz/reactorstate/internal/models"
)

const (
	// JSONCodecName selects the structured document codec.
	JSONCodecName = "json"

	jsonFilename = "reactorstate.json"
)

type stateDocument struct {
	ModuleID   string             `json:"moduleId"`
	Descriptor *artifactDocument  `json:"descriptor"`
	Primary    *artifactDocument  `json:"primary"`
	Secondary  []artifactDocument `json:"secondary"`
}

type artifactDocument struct {
	Coordinates      string            `json:"coordinates"`
	Path             *string           `json:"path"`
	Properties       map[string]string `json:"properties,omitempty"`
	ArtifactMetadata *string           `json:"artifactMetadata,omitempty"`
	GroupMetadata    *string           `json:"groupMetadata,omitempty"`
	SnapshotMetadata *string           `json:"snapshotMetadata,omitempty"`
}

var _ Codec = (*JSONCodec)(nil)

// JSONCodec stores a state as a single JSON document.
type JSONCodec struct{}

// NewJSONCodec creates a JSONCodec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Name() string     { return JSONCodecName }
func (c *JSONCodec) Filename() string { return jsonFilename }

func (c *JSONCodec) Encode(w io.Writer, state *models.ModuleState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	baseDir := state.Module.BaseDir
	doc := stateDocument{
		ModuleID:   state.ID().String(),
		Descriptor: toDocument(baseDir, state.Descriptor),
		Primary:    toDocument(baseDir, state.Primary),
		Secondary:  make([]artifactDocument, 0, len(state.Secondary)),
	}
	for _, secondary := range state.Secondary {
		doc.Secondary = append(doc.Secondary, *toDocument(baseDir, secondary))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (c *JSONCodec) Decode(r io.Reader, module *models.Module) (*models.ModuleState, error) {
	var doc stateDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, corrupt("%v", err)
	}

	if doc.Primary == nil {
		return nil, corrupt("no primary artifact")
	}
	if doc.Descriptor == nil {
		return nil, corrupt("no descriptor artifact")
	}

	baseDir := module.BaseDir
	descriptor, err := fromDocument(baseDir, doc.Descriptor)
	if err != nil {
		return nil, err
	}
	primary, err := fromDocument(baseDir, doc.Primary)
	if err != nil {
		return nil, err
	}

	secondary := make([]*models.ArtifactState, 0, len(doc.Secondary))
	for i := range doc.Secondary {
		artifact, err := fromDocument(baseDir, &doc.Secondary[i])
		if err != nil {
			return nil, err
		}
		secondary = append(secondary, artifact)
	}

	return buildState(module, descriptor, primary, secondary)
}

func toDocument(baseDir string, artifact *models.ArtifactState) *artifactDocument {
	doc := &artifactDocument{
		Coordinates: artifact.ID(),
		Properties:  artifact.Properties,
	}
	if artifact.HasLocation() {
		path := relativize(baseDir, artifact.Location)
		doc.Path = &path
	}
	if md := artifact.ArtifactMetadata; md != nil {
		doc.ArtifactMetadata = &md.Content
	}
	if md := artifact.GroupMetadata; md != nil {
		doc.GroupMetadata = &md.Content
	}
	if md := artifact.SnapshotMetadata; md != nil {
		doc.SnapshotMetadata = &md.Content
	}
	return doc
}

func fromDocument(baseDir string, doc *artifactDocument) (*models.ArtifactState, error) {
	coords, err := models.ParseCoordinates(doc.Coordinates)
	if err != nil {
		return nil, corrupt("%v", err)
	}

	var location string
	if doc.Path != nil {
		location = resolve(baseDir, *doc.Path)
	}

	artifact := models.NewArtifactState(coords, location, doc.Properties)
	for kind, content := range map[models.MetadataKind]*string{
		models.MetadataArtifact: doc.ArtifactMetadata,
		models.MetadataGroup:    doc.GroupMetadata,
		models.MetadataSnapshot: doc.SnapshotMetadata,
	} {
		if content != nil {
			_ = artifact.AttachMetadata(models.NewMetadata(kind, *content))
		}
	}
	return artifact, nil
}
