package persistence

import (
	"bytes"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
)

// Repository reads and writes one state file per module, inside the module's build
// output directory.
type Repository struct {
	fs     filesystem.FileSystem
	codec  Codec
	logger zerolog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger.With().Str("component", "repository").Logger()
	}
}

// NewRepository creates a Repository persisting states with codec.
func NewRepository(fs filesystem.FileSystem, codec Codec, opts ...Option) *Repository {
	r := &Repository{
		fs:     fs,
		codec:  codec,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Codec returns the codec used by the repository.
func (r *Repository) Codec() Codec {
	return r.codec
}

// Path returns the state file location of module.
func (r *Repository) Path(module *models.Module) string {
	return filepath.Join(module.BuildDir(), r.codec.Filename())
}

// Read returns the saved state of module, or nil when no readable state file exists.
func (r *Repository) Read(module *models.Module) (*models.ModuleState, error) {
	path := r.Path(module)

	data, err := r.fs.ReadFile(path)
	if err != nil {
		if !errs.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("module", module.ID.String()).Str("path", path).Msg("state file unreadable, treating as absent")
		}
		return nil, nil
	}

	state, err := r.codec.Decode(bytes.NewReader(data), module)
	if err != nil {
		if !errs.Is(err, errs.ErrCorruptState) {
			err = errs.Categorize(errs.ErrCorruptState, err, "decode")
		}
		return nil, errs.Wrapf(err, "state of %s at %s", module.ID, path)
	}

	r.logger.Debug().Str("module", module.ID.String()).Str("path", path).Msg("read module state")
	return state, nil
}

// Save writes the state of its owning module, creating the build output directory.
func (r *Repository) Save(state *models.ModuleState) error {
	module := state.Module

	var buf bytes.Buffer
	if err := r.codec.Encode(&buf, state); err != nil {
		return errs.Wrapf(err, "failed to encode state of %s", module.ID)
	}

	if err := r.fs.MkdirAll(module.BuildDir(), 0755); err != nil {
		return errs.Wrapf(err, "failed to create build directory of %s", module.ID)
	}

	path := r.Path(module)
	if err := filesystem.WriteFileAtomic(r.fs, path, buf.Bytes(), 0644); err != nil {
		return errs.Wrapf(err, "failed to write state of %s", module.ID)
	}

	r.logger.Debug().Str("module", module.ID.String()).Str("path", path).Msg("saved module state")
	return nil
}

// Delete removes the state file of module. A missing file is not an error.
func (r *Repository) Delete(module *models.Module) error {
	path := r.Path(module)
	if err := filesystem.RemoveIfExists(r.fs, path); err != nil {
		return errs.Wrapf(err, "failed to delete state of %s", module.ID)
	}

	r.logger.Debug().Str("module", module.ID.String()).Str("path", path).Msg("deleted module state")
	return nil
}
