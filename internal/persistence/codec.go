// Package persistence stores module states inside each module's build output directory.
package persistence

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/models"
)

// Codec converts a module state to and from its on-disk form.
//
// Paths are written relative to the module's base directory and resolved against it on
// decode. An artifact without a location is written as an empty path and decodes as absent.
type Codec interface {
	// Name is the configuration name of the codec
	Name() string

	// Filename is the state file name inside the build output directory
	Filename() string

	Encode(w io.Writer, state *models.ModuleState) error
	Decode(r io.Reader, module *models.Module) (*models.ModuleState, error)
}

var codecs = map[string]func() Codec{
	PropertiesCodecName: func() Codec { return NewPropertiesCodec() },
	JSONCodecName:       func() Codec { return NewJSONCodec() },
}

// CodecNames returns the names accepted by CodecByName.
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	factory, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", errs.ErrUnknownCodec, name, CodecNames())
	}
	return factory(), nil
}

func relativize(baseDir, location string) string {
	if location == "" {
		return ""
	}

	rel, err := filepath.Rel(baseDir, location)
	if err != nil {
		return filepath.ToSlash(location)
	}
	return filepath.ToSlash(rel)
}

func resolve(baseDir, path string) string {
	if path == "" {
		return ""
	}

	native := filepath.FromSlash(path)
	if filepath.IsAbs(native) {
		return filepath.Clean(native)
	}
	return filepath.Join(baseDir, native)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrCorruptState, fmt.Sprintf(format, args...))
}

// buildState assembles a decoded state and checks that the descriptor belongs to the primary.
func buildState(module *models.Module, descriptor, primary *models.ArtifactState, secondary []*models.ArtifactState) (*models.ModuleState, error) {
	if descriptor.Coordinates != primary.Coordinates.Descriptor() {
		return nil, corrupt("descriptor %s does not belong to main artifact %s", descriptor.ID(), primary.ID())
	}

	state := models.NewModuleState(module, descriptor, primary, secondary)
	if err := state.Validate(); err != nil {
		return nil, corrupt("%v", err)
	}
	return state, nil
}
