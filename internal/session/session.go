// Package session drives the state cache at the two points of a build where it acts:
// after the modules were read (restore) and after they were built (save).
package session

import (
	"github.com/rs/zerolog"

	"github.com/jakoblorz/reactorstate/internal/buildstate"
	"github.com/jakoblorz/reactorstate/internal/descriptor"
	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
	"github.com/jakoblorz/reactorstate/internal/persistence"
	"github.com/jakoblorz/reactorstate/internal/resolver"
)

// Session is one build invocation: the targeted module plus its declared descendants.
type Session struct {
	fs     filesystem.FileSystem
	loader descriptor.Loader
	repo   *persistence.Repository
	logger zerolog.Logger
	policy buildstate.RestorePolicy

	// Current is the module the build was started for
	Current *models.Module

	// Modules are the modules taking part in the build, Current first
	Modules []*models.Module

	saved     *buildstate.SavedManager
	fallbacks []resolver.Resolver
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRestorePolicy sets how modules without saved state are restored.
func WithRestorePolicy(policy buildstate.RestorePolicy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithFallbackResolvers adds resolvers consulted after the saved states of the workspace.
func WithFallbackResolvers(resolvers ...resolver.Resolver) Option {
	return func(s *Session) {
		s.fallbacks = append(s.fallbacks, resolvers...)
	}
}

// Open loads the module at path and every module declared below it.
func Open(fs filesystem.FileSystem, loader descriptor.Loader, repo *persistence.Repository, path string, opts ...Option) (*Session, error) {
	s := &Session{
		fs:     fs,
		loader: loader,
		repo:   repo,
		logger: zerolog.Nop(),
		policy: buildstate.RestoreStrict,
	}
	for _, opt := range opts {
		opt(s)
	}

	current, err := loader.Load(path)
	if err != nil {
		return nil, errs.Categorize(errs.ErrWorkspaceLoad, err, "load %s", path)
	}
	s.Current = current

	seen := map[models.ModuleID]bool{current.ID: true}
	s.Modules = []*models.Module{current}
	for i := 0; i < len(s.Modules); i++ {
		for _, childPath := range s.Modules[i].ChildPaths() {
			child, err := loader.Load(childPath)
			if err != nil {
				return nil, errs.Categorize(errs.ErrWorkspaceLoad, err, "load %s", childPath)
			}
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			s.Modules = append(s.Modules, child)
		}
	}

	s.saved = buildstate.NewSavedManager(repo, loader,
		buildstate.WithLogger(s.logger),
		buildstate.WithRestorePolicy(s.policy),
	)
	return s, nil
}

// CollectOutputs forgets declared outputs that were not produced. A main output without a
// file keeps its coordinates but loses its location; missing attached outputs are dropped.
func (s *Session) CollectOutputs() {
	for _, module := range s.Modules {
		if module.Artifact != nil && module.Artifact.HasLocation() && !s.fs.Exists(module.Artifact.Location) {
			s.logger.Debug().Str("module", module.ID.String()).Str("path", module.Artifact.Location).Msg("main output not produced")
			module.Artifact.Location = ""
		}

		attached := module.Attached[:0]
		for _, artifact := range module.Attached {
			if !artifact.HasLocation() || !s.fs.Exists(artifact.Location) {
				s.logger.Debug().Str("module", module.ID.String()).Str("artifact", artifact.ID()).Msg("attached output not produced")
				continue
			}
			attached = append(attached, artifact)
		}
		module.Attached = attached
	}
}

// AfterModulesRead loads the saved states of the workspace and restores the session's
// modules. Nothing is restored, and no error is raised, when no state was saved at all.
func (s *Session) AfterModulesRead() ([]*models.Module, error) {
	if err := s.LoadSaved(); err != nil {
		return nil, err
	}

	if s.saved.Empty() {
		s.logger.Info().Str("module", s.Current.ID.String()).Msg("no saved state in workspace, skipping restore")
		return nil, nil
	}

	return s.saved.Restore(s.Modules)
}

// AfterBuild captures and persists the outputs of the session's modules.
func (s *Session) AfterBuild() ([]*models.ModuleState, error) {
	s.CollectOutputs()

	runtime := buildstate.NewRuntimeManager(s.repo, buildstate.WithLogger(s.logger))
	return runtime.Save(s.Modules)
}

// LoadSaved discovers the workspace and reads its saved states.
func (s *Session) LoadSaved() error {
	return s.saved.Load(s.Current, s.Modules...)
}

// Saved returns the saved states loaded by LoadSaved or AfterModulesRead.
func (s *Session) Saved() []*models.ModuleState {
	return s.saved.States()
}

// Resolver returns an index over the saved states loaded by LoadSaved, followed by the
// fallback resolvers of the session.
func (s *Session) Resolver() resolver.Resolver {
	index := resolver.NewIndex(s.saved.States())
	if len(s.fallbacks) == 0 {
		return index
	}
	return append(resolver.Chain{index}, s.fallbacks...)
}

// Clean deletes the saved state of the session's modules.
func (s *Session) Clean() error {
	for _, module := range s.Modules {
		if err := s.repo.Delete(module); err != nil {
			return err
		}
	}
	return nil
}

// StatePath returns the state file location of module.
func (s *Session) StatePath(module *models.Module) string {
	return s.repo.Path(module)
}
