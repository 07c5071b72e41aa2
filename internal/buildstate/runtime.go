// Package buildstate captures the outputs of the modules in a running build and restores
// previously saved outputs into them.
package buildstate

import (
	"github.com/rs/zerolog"

	"github.com/jakoblorz/reactorstate/internal/models"
	"github.com/jakoblorz/reactorstate/internal/persistence"
)

// Option configures the state managers.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	policy RestorePolicy
}

// WithLogger sets the logger of a manager.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRestorePolicy sets how Restore treats modules without saved state.
func WithRestorePolicy(policy RestorePolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

func newOptions(component string, opts []Option) options {
	o := options{logger: zerolog.Nop(), policy: RestoreStrict}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("component", component).Logger()
	return o
}

// RuntimeManager turns the live modules of the current build into persisted states.
type RuntimeManager struct {
	repo *persistence.Repository
	opts options
}

// NewRuntimeManager creates a RuntimeManager saving through repo.
func NewRuntimeManager(repo *persistence.Repository, opts ...Option) *RuntimeManager {
	return &RuntimeManager{repo: repo, opts: newOptions("runtime-state", opts)}
}

// Capture snapshots the current outputs of every module.
func (m *RuntimeManager) Capture(modules []*models.Module) []*models.ModuleState {
	states := make([]*models.ModuleState, 0, len(modules))
	for _, module := range modules {
		states = append(states, CaptureModule(module))
	}
	return states
}

// Persist saves every state in order and stops at the first failure.
func (m *RuntimeManager) Persist(states []*models.ModuleState) error {
	for _, state := range states {
		if err := m.repo.Save(state); err != nil {
			return err
		}
		m.opts.logger.Info().
			Str("module", state.ID().String()).
			Int("artifacts", len(state.Artifacts())).
			Msg("saved module state")
	}
	return nil
}

// Save captures and persists the modules.
func (m *RuntimeManager) Save(modules []*models.Module) ([]*models.ModuleState, error) {
	states := m.Capture(modules)
	if err := m.Persist(states); err != nil {
		return nil, err
	}
	return states, nil
}

// CaptureModule builds the state of a single module. Descriptor-only modules, and modules
// whose main output is the descriptor, record the descriptor as their primary output.
func CaptureModule(module *models.Module) *models.ModuleState {
	descriptor := models.NewArtifactState(module.DescriptorCoordinates(), module.DescriptorPath, nil)

	main := module.Artifact
	if main == nil {
		main = models.NewArtifactState(module.MainCoordinates(), "", nil)
	}

	primary := main.Clone()
	if module.DescriptorOnly() || main.Coordinates == descriptor.Coordinates {
		descriptor.Properties = primary.Properties
		descriptor.ArtifactMetadata = primary.ArtifactMetadata
		descriptor.GroupMetadata = primary.GroupMetadata
		descriptor.SnapshotMetadata = primary.SnapshotMetadata
		primary = descriptor
	}

	secondary := make([]*models.ArtifactState, 0, len(module.Attached))
	for _, attached := range module.Attached {
		secondary = append(secondary, attached.Clone())
	}

	return models.NewModuleState(module, descriptor, primary, secondary)
}
