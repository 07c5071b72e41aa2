package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/reactorstate/internal/models"
	"github.com/jakoblorz/reactorstate/internal/tui"
)

// ArtifactView is the printable form of one output file
type ArtifactView struct {
	Coordinates string `json:"coordinates"`
	Location    string `json:"location,omitempty"`
}

// ModuleView is the printable form of a module and its outputs
type ModuleView struct {
	Module    string         `json:"module"`
	StateFile string         `json:"stateFile,omitempty"`
	Artifacts []ArtifactView `json:"artifacts"`
}

func artifactView(artifact *models.ArtifactState) ArtifactView {
	return ArtifactView{Coordinates: artifact.ID(), Location: artifact.Location}
}

// moduleViewFromLive describes a live module: descriptor, main output and attached outputs.
func moduleViewFromLive(module *models.Module) ModuleView {
	view := ModuleView{
		Module: module.ID.String(),
		Artifacts: []ArtifactView{{
			Coordinates: module.DescriptorCoordinates().String(),
			Location:    module.DescriptorPath,
		}},
	}

	if module.Artifact != nil && !module.DescriptorOnly() {
		view.Artifacts = append(view.Artifacts, artifactView(module.Artifact))
	}
	for _, attached := range module.Attached {
		view.Artifacts = append(view.Artifacts, artifactView(attached))
	}
	return view
}

func moduleViewFromState(state *models.ModuleState, stateFile string) ModuleView {
	view := ModuleView{Module: state.ID().String(), StateFile: stateFile}
	for _, artifact := range state.Artifacts() {
		view.Artifacts = append(view.Artifacts, artifactView(artifact))
	}
	return view
}

// writeModuleViews prints views as text. Locations below baseDir are shown relative to it.
func writeModuleViews(w io.Writer, baseDir string, views []ModuleView) {
	for i, view := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, tui.HeaderStyle.Render(view.Module))
		if view.StateFile != "" {
			fmt.Fprintf(w, "  %s %s\n", tui.SubtleStyle.Render("state"), tui.PathStyle.Render(displayPath(baseDir, view.StateFile)))
		}

		for _, artifact := range view.Artifacts {
			location := tui.WarningStyle.Render("(not produced)")
			if artifact.Location != "" {
				location = tui.PathStyle.Render(displayPath(baseDir, artifact.Location))
			}
			fmt.Fprintf(w, "  %s %s\n", tui.CoordinatesStyle.Render(artifact.Coordinates), location)
		}
	}
}

func displayPath(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
