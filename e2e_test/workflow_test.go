package e2e_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/reactorstate/internal/cli"
	"github.com/jakoblorz/reactorstate/internal/descriptor"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
	"github.com/jakoblorz/reactorstate/internal/persistence"
	"github.com/jakoblorz/reactorstate/internal/session"
)

const sharedDescriptor = "github.com/jakoblorz/reactorstate/kitchensink/packages:shared:pom:0.4.0"

// copyKitchensink copies the sample Go workspace so that state files land in a temp dir.
func copyKitchensink(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "kitchensink")
	require.NoError(t, os.CopyFS(dir, os.DirFS(filepath.Join("..", "kitchensink"))))
	return dir
}

func moduleNamed(t *testing.T, modules []*models.Module, name string) *models.Module {
	t.Helper()

	for _, m := range modules {
		if m.ID.ArtifactID == name {
			return m
		}
	}
	t.Fatalf("module %s not found", name)
	return nil
}

func TestFullWorkflow(t *testing.T) {
	dir := copyKitchensink(t)

	fs := filesystem.NewOSFileSystem()
	loader := descriptor.New(fs)
	repo := persistence.NewRepository(fs, persistence.NewPropertiesCodec())

	// Full build of the Go workspace
	full, err := session.Open(fs, loader, repo, dir)
	require.NoError(t, err)
	require.Len(t, full.Modules, 3, "disabled module must not take part")

	backendZip := filepath.Join(dir, "apps", "backend", "target", "backend-0.9.1.zip")
	require.NoError(t, fs.MkdirAll(filepath.Dir(backendZip), 0755))
	require.NoError(t, fs.WriteFile(backendZip, []byte("zip"), 0644))
	moduleNamed(t, full.Modules, "backend").Artifact.Location = backendZip

	states, err := full.AfterBuild()
	require.NoError(t, err)
	require.Len(t, states, 3)
	require.True(t, fs.Exists(filepath.Join(dir, "target", "reactorstate.properties")))
	require.False(t, fs.Exists(filepath.Join(dir, "apps", "docs", "target")))

	// Partial build of the backend only
	partial, err := session.Open(fs, loader, repo, filepath.Join(dir, "apps", "backend"))
	require.NoError(t, err)
	require.Equal(t, "", partial.Current.Artifact.Location)

	restored, err := partial.AfterModulesRead()
	require.NoError(t, err)
	require.Len(t, restored, 1)
	require.Equal(t, backendZip, partial.Current.Artifact.Location)

	// Sibling outputs resolve from the saved state
	r := partial.Resolver()
	location, ok := r.FindLocation(models.MustParseCoordinates(sharedDescriptor))
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "packages", "shared", "go.mod"), location)

	versions := r.FindVersions(models.MustParseCoordinates("github.com/jakoblorz/reactorstate/kitchensink/apps:backend:zip:0"))
	require.Equal(t, []string{"0.9.1"}, versions)

	// Clean removes the backend state only
	require.NoError(t, partial.Clean())
	require.False(t, fs.Exists(partial.StatePath(partial.Current)))
	require.True(t, fs.Exists(filepath.Join(dir, "packages", "shared", "target", "reactorstate.properties")))
}

func TestCLIWorkflow(t *testing.T) {
	dir := copyKitchensink(t)
	fs := filesystem.NewOSFileSystem()

	run := func(args ...string) (string, error) {
		rootCmd := cli.NewRootCommand(fs)
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		err := rootCmd.Execute()
		return out.String(), err
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reactorstate.yaml"), []byte("codec: json\noutput_dir: build\n"), 0644))

	_, err := run("save", "-f", dir)
	require.NoError(t, err)
	require.True(t, fs.Exists(filepath.Join(dir, "packages", "shared", "build", "reactorstate.json")))

	out, err := run("where", "-f", filepath.Join(dir, "apps", "backend"), sharedDescriptor)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "packages", "shared", "go.mod")+"\n", out)

	_, err = run("restore", "-f", filepath.Join(dir, "apps", "backend"))
	require.NoError(t, err)

	_, err = run("clean", "--yes", "-f", dir)
	require.NoError(t, err)
	require.False(t, fs.Exists(filepath.Join(dir, "packages", "shared", "build", "reactorstate.json")))
}
