package persistence

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/magiconair/properties"

	"github.com/jakoblorz/reactorstate/internal/models"
)

const (
	// PropertiesCodecName selects the flat key-value codec.
	PropertiesCodecName = "properties"

	propertiesFilename = "reactorstate.properties"
	propertiesHeader   = "# reactor state\n"

	keyMainArtifact = "main-artifact"
	prefixProperty  = "property."
	prefixMetadata  = "metadata."
)

var _ Codec = (*PropertiesCodec)(nil)

// PropertiesCodec stores a state as a flat properties file.
//
// Every artifact is an entry "<coordinates> = <relative path>". The entry "main-artifact"
// names the primary's coordinates; every other coordinate entry besides the descriptor is
// a secondary. Artifact properties are stored as "property.<coordinates>.<name>" and
// metadata documents as "metadata.<coordinates>.<kind>".
type PropertiesCodec struct{}

// NewPropertiesCodec creates a PropertiesCodec.
func NewPropertiesCodec() *PropertiesCodec {
	return &PropertiesCodec{}
}

func (c *PropertiesCodec) Name() string     { return PropertiesCodecName }
func (c *PropertiesCodec) Filename() string { return propertiesFilename }

func (c *PropertiesCodec) Encode(w io.Writer, state *models.ModuleState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	baseDir := state.Module.BaseDir
	entries := map[string]string{
		keyMainArtifact: state.Primary.ID(),
	}

	for _, artifact := range state.Artifacts() {
		id := artifact.ID()
		entries[id] = relativize(baseDir, artifact.Location)

		for name, value := range artifact.Properties {
			entries[prefixProperty+id+"."+name] = value
		}
		for _, kind := range models.MetadataKinds {
			if md := artifact.Metadata(kind); md != nil {
				entries[prefixMetadata+id+"."+kind.String()] = md.Content
			}
		}
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, key := range keys {
		if _, _, err := p.Set(key, entries[key]); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	if _, err := io.WriteString(w, propertiesHeader); err != nil {
		return err
	}
	if _, err := p.Write(w, properties.UTF8); err != nil {
		return err
	}
	return nil
}

func (c *PropertiesCodec) Decode(r io.Reader, module *models.Module) (*models.ModuleState, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(buf.Bytes())
	if err != nil {
		return nil, corrupt("%v", err)
	}

	mainID, ok := p.Get(keyMainArtifact)
	if !ok {
		return nil, corrupt("no %s entry", keyMainArtifact)
	}
	mainCoords, err := models.ParseCoordinates(mainID)
	if err != nil {
		return nil, corrupt("%s: %v", keyMainArtifact, err)
	}

	baseDir := module.BaseDir
	artifacts := make(map[string]*models.ArtifactState)
	var order []string
	var propertyKeys, metadataKeys []string

	for _, key := range p.Keys() {
		switch {
		case key == keyMainArtifact:
		case strings.HasPrefix(key, prefixProperty):
			propertyKeys = append(propertyKeys, key)
		case strings.HasPrefix(key, prefixMetadata):
			metadataKeys = append(metadataKeys, key)
		default:
			coords, err := models.ParseCoordinates(key)
			if err != nil {
				return nil, corrupt("entry %q: %v", key, err)
			}
			path, _ := p.Get(key)
			artifacts[coords.String()] = models.NewArtifactState(coords, resolve(baseDir, path), nil)
			order = append(order, coords.String())
		}
	}

	for _, key := range propertyKeys {
		artifact, name := matchArtifact(artifacts, strings.TrimPrefix(key, prefixProperty))
		if artifact == nil {
			continue
		}
		if artifact.Properties == nil {
			artifact.Properties = make(map[string]string)
		}
		artifact.Properties[name], _ = p.Get(key)
	}

	for _, key := range metadataKeys {
		rest := strings.TrimPrefix(key, prefixMetadata)
		idx := strings.LastIndex(rest, ".")
		if idx < 0 {
			return nil, corrupt("metadata entry %q has no kind", key)
		}
		kind, err := models.ParseMetadataKind(rest[idx+1:])
		if err != nil {
			return nil, corrupt("metadata entry %q: %v", key, err)
		}
		artifact, ok := artifacts[rest[:idx]]
		if !ok {
			continue
		}
		content, _ := p.Get(key)
		if err := artifact.AttachMetadata(models.NewMetadata(kind, content)); err != nil {
			return nil, corrupt("%v", err)
		}
	}

	primary, ok := artifacts[mainCoords.String()]
	if !ok {
		return nil, corrupt("main artifact %s has no entry", mainCoords)
	}

	descriptorCoords := mainCoords.Descriptor()
	descriptor, ok := artifacts[descriptorCoords.String()]
	if !ok {
		return nil, corrupt("descriptor %s has no entry", descriptorCoords)
	}

	var secondary []*models.ArtifactState
	for _, id := range order {
		if id == primary.ID() || id == descriptor.ID() {
			continue
		}
		secondary = append(secondary, artifacts[id])
	}

	return buildState(module, descriptor, primary, secondary)
}

// matchArtifact splits "<coordinates>.<name>" using the longest known coordinates prefix.
// Coordinates may themselves contain dots, so the split point cannot be found syntactically.
func matchArtifact(artifacts map[string]*models.ArtifactState, rest string) (*models.ArtifactState, string) {
	var best string
	for id := range artifacts {
		if len(id) > len(best) && strings.HasPrefix(rest, id+".") {
			best = id
		}
	}
	if best == "" {
		return nil, ""
	}
	return artifacts[best], rest[len(best)+1:]
}
