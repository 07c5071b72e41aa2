package buildstate

import (
	"fmt"

	"github.com/jakoblorz/reactorstate/internal/descriptor"
	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/models"
	"github.com/jakoblorz/reactorstate/internal/persistence"
	"github.com/jakoblorz/reactorstate/internal/workspace"
)

// SavedManager loads the saved states of a whole workspace and restores them into live
// modules.
type SavedManager struct {
	repo   *persistence.Repository
	loader descriptor.Loader
	opts   options

	states map[models.ModuleID]*models.ModuleState
	order  []models.ModuleID
}

// NewSavedManager creates a SavedManager reading through repo and loading descriptors
// through loader.
func NewSavedManager(repo *persistence.Repository, loader descriptor.Loader, opts ...Option) *SavedManager {
	return &SavedManager{
		repo:   repo,
		loader: loader,
		opts:   newOptions("saved-state", opts),
		states: make(map[models.ModuleID]*models.ModuleState),
	}
}

// Load discovers the workspace around start and reads every saved state. Modules that were
// never saved are omitted. build lists modules already taking part in the current build.
func (m *SavedManager) Load(start *models.Module, build ...*models.Module) error {
	ws := workspace.New(m.loader, workspace.WithLogger(m.opts.logger), workspace.WithModules(build...))
	modules, err := ws.Discover(start)
	if err != nil {
		return err
	}

	states := make(map[models.ModuleID]*models.ModuleState, len(modules))
	var order []models.ModuleID
	for _, module := range modules {
		state, err := m.repo.Read(module)
		if err != nil {
			return err
		}
		if state == nil {
			m.opts.logger.Debug().Str("module", module.ID.String()).Msg("no saved state")
			continue
		}
		states[module.ID] = state
		order = append(order, module.ID)
	}

	m.states = states
	m.order = order
	return nil
}

// States returns the loaded states in discovery order.
func (m *SavedManager) States() []*models.ModuleState {
	states := make([]*models.ModuleState, 0, len(m.order))
	for _, id := range m.order {
		states = append(states, m.states[id])
	}
	return states
}

// State returns the loaded state of a module.
func (m *SavedManager) State(id models.ModuleID) (*models.ModuleState, bool) {
	state, ok := m.states[id]
	return state, ok
}

// Empty reports whether no saved state was loaded.
func (m *SavedManager) Empty() bool {
	return len(m.order) == 0
}

// Restore applies the loaded state of every live module and returns the restored modules.
// Under the strict policy a module without state fails the restore before any module is
// touched; under the lenient policy it is skipped with a warning.
func (m *SavedManager) Restore(modules []*models.Module) ([]*models.Module, error) {
	if m.opts.policy != RestoreLenient {
		for _, module := range modules {
			if _, ok := m.states[module.ID]; !ok {
				return nil, fmt.Errorf("%w: module %s: rebuild required", errs.ErrMissingState, module.ID)
			}
		}
	}

	restored := make([]*models.Module, 0, len(modules))
	for _, module := range modules {
		state, ok := m.states[module.ID]
		if !ok {
			m.opts.logger.Warn().Str("module", module.ID.String()).Msg("no saved state, module will not be restored")
			continue
		}

		module.ApplyState(state)
		restored = append(restored, module)
		m.opts.logger.Info().
			Str("module", module.ID.String()).
			Str("main", module.Artifact.Location).
			Int("attached", len(module.Attached)).
			Msg("restored module")
	}

	return restored, nil
}
