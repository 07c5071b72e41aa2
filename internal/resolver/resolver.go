// Package resolver answers artifact lookups from the saved states of a workspace.
package resolver

import "github.com/jakoblorz/reactorstate/internal/models"

// Resolver locates artifacts produced inside the workspace.
type Resolver interface {
	// FindLocation returns the file of the artifact with exactly these coordinates.
	FindLocation(coords models.Coordinates) (string, bool)

	// FindVersions returns the versions known for the coordinates, ignoring their version.
	FindVersions(coords models.Coordinates) []string
}

var _ Resolver = (*Index)(nil)

// Index maps version-less coordinates to the last artifact state indexed under them.
type Index struct {
	artifacts map[string]*models.ArtifactState
}

// NewIndex indexes the descriptor, primary and secondary artifacts of every state in order.
func NewIndex(states []*models.ModuleState) *Index {
	idx := &Index{artifacts: make(map[string]*models.ArtifactState)}
	for _, state := range states {
		idx.Add(state)
	}
	return idx
}

// Add indexes the artifacts of a state, replacing entries with the same version-less
// coordinates.
func (i *Index) Add(state *models.ModuleState) {
	for _, artifact := range state.Artifacts() {
		i.artifacts[artifact.Coordinates.VersionlessID()] = artifact
	}
}

// Lookup returns the artifact indexed under the version-less projection of coords.
func (i *Index) Lookup(coords models.Coordinates) (*models.ArtifactState, bool) {
	artifact, ok := i.artifacts[coords.VersionlessID()]
	return artifact, ok
}

// FindLocation returns the location only when the indexed version matches. An indexed
// artifact without a location is reported as not found.
func (i *Index) FindLocation(coords models.Coordinates) (string, bool) {
	artifact, ok := i.Lookup(coords)
	if !ok || !artifact.Coordinates.BaseEquals(coords) || !artifact.HasLocation() {
		return "", false
	}
	return artifact.Location, true
}

func (i *Index) FindVersions(coords models.Coordinates) []string {
	artifact, ok := i.Lookup(coords)
	if !ok {
		return nil
	}
	return []string{artifact.Coordinates.Version}
}

var _ Resolver = Chain(nil)

// Chain consults several resolvers in order.
type Chain []Resolver

// FindLocation returns the first location found.
func (c Chain) FindLocation(coords models.Coordinates) (string, bool) {
	for _, r := range c {
		if location, ok := r.FindLocation(coords); ok {
			return location, true
		}
	}
	return "", false
}

// FindVersions returns the union of all versions, in first-seen order.
func (c Chain) FindVersions(coords models.Coordinates) []string {
	seen := make(map[string]struct{})
	var versions []string
	for _, r := range c {
		for _, v := range r.FindVersions(coords) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			versions = append(versions, v)
		}
	}
	return versions
}
