// Package workspace discovers the modules connected to a starting module through declared
// child and parent links on disk.
package workspace

import (
	"github.com/rs/zerolog"

	"github.com/jakoblorz/reactorstate/internal/descriptor"
	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/models"
)

// Workspace holds the modules found by the last discovery.
type Workspace struct {
	loader  descriptor.Loader
	logger  zerolog.Logger
	build   []*models.Module
	modules map[models.ModuleID]*models.Module
	order   []models.ModuleID
}

// Option configures workspace behavior.
type Option func(*Workspace)

// WithLogger sets the logger used to report discovered modules.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger.With().Str("component", "workspace").Logger()
	}
}

// WithModules seeds discovery with the modules taking part in the current build. They are
// never loaded again, so discovery returns these live instances.
func WithModules(modules ...*models.Module) Option {
	return func(w *Workspace) {
		w.build = append(w.build, modules...)
	}
}

// New creates a new Workspace loading descriptors through loader.
func New(loader descriptor.Loader, options ...Option) *Workspace {
	ws := &Workspace{
		loader:  loader,
		logger:  zerolog.Nop(),
		modules: make(map[models.ModuleID]*models.Module),
	}

	for _, option := range options {
		option(ws)
	}

	return ws
}

// Discover walks down through declared children and up through in-workspace parents,
// starting at start. Every module is visited at most once. Any descriptor load failure
// aborts discovery with ErrWorkspaceLoad.
func (w *Workspace) Discover(start *models.Module) ([]*models.Module, error) {
	w.modules = make(map[models.ModuleID]*models.Module)
	w.order = nil

	for _, m := range w.build {
		w.add(m)
	}
	if existing, ok := w.modules[start.ID]; ok {
		start = existing
	} else {
		w.add(start)
	}

	if err := w.visit(start); err != nil {
		w.modules = make(map[models.ModuleID]*models.Module)
		w.order = nil
		return nil, err
	}

	return w.Modules(), nil
}

func (w *Workspace) visit(m *models.Module) error {
	for _, childPath := range m.ChildPaths() {
		child, err := w.load(childPath)
		if err != nil {
			return err
		}
		if w.Has(child.ID) {
			continue
		}

		w.add(child)
		if err := w.visit(child); err != nil {
			return err
		}
	}

	if !m.Parent.InWorkspace() || w.Has(m.Parent.ID) {
		return nil
	}

	parent, err := w.load(m.Parent.DescriptorPath)
	if err != nil {
		return err
	}
	if w.Has(parent.ID) {
		return nil
	}

	w.add(parent)
	return w.visit(parent)
}

func (w *Workspace) load(path string) (*models.Module, error) {
	m, err := w.loader.Load(path)
	if err != nil {
		return nil, errs.Categorize(errs.ErrWorkspaceLoad, err, "load %s", path)
	}
	return m, nil
}

func (w *Workspace) add(m *models.Module) {
	if w.Has(m.ID) {
		return
	}

	w.modules[m.ID] = m
	w.order = append(w.order, m.ID)
	w.logger.Debug().Str("module", m.ID.String()).Str("dir", m.BaseDir).Msg("discovered module")
}

// Has reports whether a module with the given identity was discovered.
func (w *Workspace) Has(id models.ModuleID) bool {
	_, ok := w.modules[id]
	return ok
}

// Modules returns the discovered modules in discovery order.
func (w *Workspace) Modules() []*models.Module {
	modules := make([]*models.Module, 0, len(w.order))
	for _, id := range w.order {
		modules = append(modules, w.modules[id])
	}
	return modules
}
