package models

import (
	"fmt"
	"sort"
)

// ModuleState is the persisted record of one module's build outputs.
type ModuleState struct {
	// Module owns the state; its directories anchor relative paths on disk
	Module *Module

	// Descriptor is the module's own descriptor file as an artifact
	Descriptor *ArtifactState

	// Primary is the main output. For descriptor-only modules it is the same
	// pointer as Descriptor.
	Primary *ArtifactState

	// Secondary holds supporting outputs, sorted by coordinates
	Secondary []*ArtifactState
}

// NewModuleState builds a normalized state: secondaries are de-duplicated by coordinates
// (last wins), stripped of entries equal to the primary or descriptor and sorted.
// When the primary has the descriptor's coordinates the descriptor object is used for both.
func NewModuleState(module *Module, descriptor, primary *ArtifactState, secondary []*ArtifactState) *ModuleState {
	if primary == nil || primary.Coordinates == descriptor.Coordinates {
		primary = descriptor
	}

	byID := make(map[string]*ArtifactState, len(secondary))
	for _, s := range secondary {
		if s == nil || s.Coordinates == primary.Coordinates || s.Coordinates == descriptor.Coordinates {
			continue
		}
		byID[s.ID()] = s
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var normalized []*ArtifactState
	for _, id := range ids {
		normalized = append(normalized, byID[id])
	}

	return &ModuleState{
		Module:     module,
		Descriptor: descriptor,
		Primary:    primary,
		Secondary:  normalized,
	}
}

// ID returns the owning module's identity.
func (s *ModuleState) ID() ModuleID {
	return s.Module.ID
}

// DescriptorOnly reports whether the module produced nothing beyond its descriptor.
func (s *ModuleState) DescriptorOnly() bool {
	return s.Primary == s.Descriptor
}

// Artifacts returns descriptor, primary (unless identical) and secondaries, in that order.
func (s *ModuleState) Artifacts() []*ArtifactState {
	out := []*ArtifactState{s.Descriptor}
	if !s.DescriptorOnly() {
		out = append(out, s.Primary)
	}
	return append(out, s.Secondary...)
}

// Validate checks the structural invariants of the state.
func (s *ModuleState) Validate() error {
	if s.Module == nil {
		return fmt.Errorf("module state has no owning module")
	}
	if s.Descriptor == nil || s.Primary == nil {
		return fmt.Errorf("module state for %s requires descriptor and primary artifacts", s.Module.ID)
	}
	if s.Primary != s.Descriptor && s.Primary.Coordinates == s.Descriptor.Coordinates {
		return fmt.Errorf("module state for %s: primary duplicates descriptor %s", s.Module.ID, s.Descriptor.ID())
	}

	seen := make(map[Coordinates]struct{}, len(s.Secondary))
	for _, secondary := range s.Secondary {
		if secondary.Coordinates == s.Primary.Coordinates || secondary.Coordinates == s.Descriptor.Coordinates {
			return fmt.Errorf("module state for %s: secondary %s duplicates primary or descriptor", s.Module.ID, secondary.ID())
		}
		if _, dup := seen[secondary.Coordinates]; dup {
			return fmt.Errorf("module state for %s: duplicate secondary %s", s.Module.ID, secondary.ID())
		}
		seen[secondary.Coordinates] = struct{}{}
	}
	return nil
}
