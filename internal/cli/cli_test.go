package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/tui"
	"github.com/jakoblorz/reactorstate/internal/workspace"
)

const testWorkspaceRoot = "/workspace"

func buildWorkspace(t *testing.T) *filesystem.MockFileSystem {
	t.Helper()

	return workspace.NewWorkspaceBuilder(testWorkspaceRoot).
		AddModule("root", "", "core", "web").
		AddModule("core", "core").
		AddModule("web", "web").
		SetParent("core", "root").
		SetParent("web", "root").
		SetMainOutput("core", "target/core.jar").
		AddAttachedOutput("core", "docs", "target/core-docs.jar").
		SetMainOutput("web", "target/web.jar").
		AddFile("core/target/core.jar", "core").
		AddFile("core/target/core-docs.jar", "docs").
		AddFile("web/target/web.jar", "web").
		Build()
}

func run(t *testing.T, fs filesystem.FileSystem, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCommand(fs)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSave(t *testing.T) {
	fs := buildWorkspace(t)

	out, err := run(t, fs, "save")
	require.NoError(t, err)
	require.Contains(t, out, "com.example:root:pom:1.0.0")
	require.Contains(t, out, "com.example:core:jar:1.0.0")
	require.Contains(t, out, "web/target/reactorstate.properties")

	require.True(t, fs.Exists("/workspace/target/reactorstate.properties"))
	require.True(t, fs.Exists("/workspace/core/target/reactorstate.properties"))
	require.True(t, fs.Exists("/workspace/web/target/reactorstate.properties"))
}

func TestSave_CodecFlag(t *testing.T) {
	fs := buildWorkspace(t)

	_, err := run(t, fs, "save", "-f", "web", "--codec", "json")
	require.NoError(t, err)
	require.True(t, fs.Exists("/workspace/web/target/reactorstate.json"))
	require.False(t, fs.Exists("/workspace/web/target/reactorstate.properties"))

	_, err = run(t, fs, "save", "--codec", "xml")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestSave_ConfigFile(t *testing.T) {
	fs := buildWorkspace(t)
	fs.AddFile("/workspace/.reactorstate.yaml", []byte("codec: json\n"))

	_, err := run(t, fs, "save", "-f", "web/module.yaml")
	require.NoError(t, err)
	require.True(t, fs.Exists("/workspace/web/target/reactorstate.json"))
}

func TestRestore(t *testing.T) {
	fs := buildWorkspace(t)

	out, err := run(t, fs, "restore", "-f", "web")
	require.NoError(t, err)
	require.Contains(t, out, "nothing restored")

	_, err = run(t, fs, "save")
	require.NoError(t, err)

	out, err = run(t, fs, "restore", "-f", "web")
	require.NoError(t, err)
	require.Contains(t, out, "com.example:web:jar:1.0.0")
	require.Contains(t, out, "target/web.jar")

	out, err = run(t, fs, "restore", "-f", "web", "--format", "json")
	require.NoError(t, err)

	var views []ModuleView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	require.Equal(t, "com.example:web:jar:1.0.0", views[0].Module)
	require.Equal(t, ArtifactView{Coordinates: "com.example:web:jar:1.0.0", Location: "/workspace/web/target/web.jar"}, views[0].Artifacts[1])
}

func TestRestore_Policy(t *testing.T) {
	fs := buildWorkspace(t)

	_, err := run(t, fs, "save", "-f", "web")
	require.NoError(t, err)

	_, err = run(t, fs, "restore")
	require.ErrorIs(t, err, errs.ErrMissingState)

	out, err := run(t, fs, "restore", "--lenient", "--format", "json")
	require.NoError(t, err)

	var views []ModuleView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	require.Equal(t, "com.example:web:jar:1.0.0", views[0].Module)

	_, err = run(t, fs, "restore", "--strict", "--lenient")
	require.Error(t, err)
}

func TestStatus(t *testing.T) {
	fs := buildWorkspace(t)

	out, err := run(t, fs, "status")
	require.NoError(t, err)
	require.Contains(t, out, "No saved state")

	_, err = run(t, fs, "save")
	require.NoError(t, err)

	out, err = run(t, fs, "status", "-f", "core", "--format", "json")
	require.NoError(t, err)

	var views []ModuleView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 3)
	snaps.MatchSnapshot(t, out)

	out, err = run(t, fs, "status", "--template", `{{range .}}{{.Module | upper}};{{end}}`)
	require.NoError(t, err)
	require.Contains(t, out, "COM.EXAMPLE:CORE:JAR:1.0.0;")
	require.Contains(t, out, "COM.EXAMPLE:WEB:JAR:1.0.0;")

	_, err = run(t, fs, "status", "--template", `{{range .}`)
	require.Error(t, err)
}

func TestWhere(t *testing.T) {
	fs := buildWorkspace(t)

	_, err := run(t, fs, "save")
	require.NoError(t, err)

	out, err := run(t, fs, "where", "-f", "web", "com.example:core:jar:docs:1.0.0")
	require.NoError(t, err)
	require.Equal(t, "/workspace/core/target/core-docs.jar\n", out)

	_, err = run(t, fs, "where", "com.example:core:2.0.0")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = run(t, fs, "where", "not-coordinates")
	require.Error(t, err)
}

func TestVersions(t *testing.T) {
	fs := buildWorkspace(t)

	_, err := run(t, fs, "save")
	require.NoError(t, err)

	out, err := run(t, fs, "versions", "com.example:core:0")
	require.NoError(t, err)
	require.Equal(t, "1.0.0\n", out)

	_, err = run(t, fs, "versions", "com.example:unknown:0")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestClean(t *testing.T) {
	fs := buildWorkspace(t)

	_, err := run(t, fs, "save")
	require.NoError(t, err)

	_, err = run(t, fs, "clean", "-f", "core")
	require.ErrorIs(t, err, tui.ErrNotInteractive)
	require.True(t, fs.Exists("/workspace/core/target/reactorstate.properties"))

	out, err := run(t, fs, "clean", "-f", "core", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "target/reactorstate.properties")
	require.False(t, fs.Exists("/workspace/core/target/reactorstate.properties"))
	require.True(t, fs.Exists("/workspace/web/target/reactorstate.properties"))
}

func TestClean_Declined(t *testing.T) {
	fs := buildWorkspace(t)

	_, err := run(t, fs, "save")
	require.NoError(t, err)

	decline := func(io.Reader, io.Writer, string) (bool, error) { return false, nil }
	cleanCmd := &CleanCommand{fs: fs, confirm: decline}
	cobraCmd := NewRootCommand(fs)
	for _, c := range cobraCmd.Commands() {
		if c.Name() == "clean" {
			c.RunE = cleanCmd.Run
		}
	}

	var out bytes.Buffer
	cobraCmd.SetOut(&out)
	cobraCmd.SetErr(&bytes.Buffer{})
	cobraCmd.SetArgs([]string{"clean"})
	require.NoError(t, cobraCmd.Execute())
	require.Contains(t, out.String(), "Aborted")
	require.True(t, fs.Exists("/workspace/core/target/reactorstate.properties"))
}

func TestRoot_CommandRegistration(t *testing.T) {
	rootCmd := NewRootCommand(filesystem.NewMockFileSystem())

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"save", "restore", "status", "where", "versions", "clean"}, names)
}

func TestDisplayPath(t *testing.T) {
	require.Equal(t, "target/a.jar", displayPath("/ws/core", "/ws/core/target/a.jar"))
	require.Equal(t, "/ws/web/target/b.jar", displayPath("/ws/core", "/ws/web/target/b.jar"))
}
