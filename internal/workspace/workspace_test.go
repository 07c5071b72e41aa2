package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/reactorstate/internal/descriptor"
	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/models"
)

// root
// ├── a
// │   └── c
// └── b
func newTreeBuilder() *WorkspaceBuilder {
	return NewWorkspaceBuilder("/workspace").
		AddModule("root", "", "a", "b").
		AddModule("a", "a", "c").
		AddModule("b", "b").
		AddModule("c", "a/c").
		SetParent("a", "root").
		SetParent("b", "root").
		SetParent("c", "a")
}

func loadModule(t *testing.T, wb *WorkspaceBuilder, name string) *models.Module {
	t.Helper()

	m, err := descriptor.New(wb.FileSystem()).Load(wb.DescriptorPath(name))
	require.NoError(t, err)
	return m
}

func names(modules []*models.Module) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.ID.ArtifactID)
	}
	return out
}

func TestDiscover_Completeness(t *testing.T) {
	wb := newTreeBuilder()
	fs := wb.Build()

	ws := New(descriptor.New(fs))
	modules, err := ws.Discover(loadModule(t, wb, "c"))
	require.NoError(t, err)

	require.Equal(t, []string{"c", "a", "root", "b"}, names(modules))
}

func TestDiscover_FromRoot(t *testing.T) {
	wb := newTreeBuilder()
	fs := wb.Build()

	modules, err := New(descriptor.New(fs)).Discover(loadModule(t, wb, "root"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"root", "a", "b", "c"}, names(modules))
}

func TestDiscover_Idempotent(t *testing.T) {
	wb := newTreeBuilder()
	fs := wb.Build()
	ws := New(descriptor.New(fs))

	_, err := ws.Discover(loadModule(t, wb, "b"))
	require.NoError(t, err)
	first := names(ws.Modules())

	_, err = ws.Discover(loadModule(t, wb, "b"))
	require.NoError(t, err)
	require.Equal(t, first, names(ws.Modules()))

	_, err = New(descriptor.New(fs)).Discover(loadModule(t, wb, "c"))
	require.NoError(t, err)
	require.Len(t, first, 4)
}

func TestDiscover_MutualReferenceVisitedOnce(t *testing.T) {
	wb := NewWorkspaceBuilder("/workspace").
		AddModule("root", "", "b").
		AddModule("b", "b").
		SetParent("b", "root")
	fs := wb.Build()

	loader := &countingLoader{Loader: descriptor.New(fs), loads: map[string]int{}}
	modules, err := New(loader).Discover(loadModule(t, wb, "b"))
	require.NoError(t, err)

	require.Equal(t, []string{"b", "root"}, names(modules))
	for path, n := range loader.loads {
		require.LessOrEqual(t, n, 1, "loaded %s %d times", path, n)
	}
}

func TestDiscover_ExternalParentNotClimbed(t *testing.T) {
	wb := NewWorkspaceBuilder("/workspace").
		AddModule("lib", "lib").
		SetExternalParent("lib", "org.acme", "corporate-parent", "7")
	fs := wb.Build()

	start := loadModule(t, wb, "lib")
	require.NotNil(t, start.Parent)

	modules, err := New(descriptor.New(fs)).Discover(start)
	require.NoError(t, err)
	require.Equal(t, []string{"lib"}, names(modules))
}

func TestDiscover_LoadFailure(t *testing.T) {
	wb := NewWorkspaceBuilder("/workspace").
		AddModule("root", "", "a", "missing").
		AddModule("a", "a").
		SetParent("a", "root")
	fs := wb.Build()

	ws := New(descriptor.New(fs))
	modules, err := ws.Discover(loadModule(t, wb, "a"))
	require.ErrorIs(t, err, errs.ErrWorkspaceLoad)
	require.ErrorIs(t, err, errs.ErrDescriptor)
	require.Nil(t, modules)
	require.Empty(t, ws.Modules())
}

func TestDiscover_BrokenParentDescriptor(t *testing.T) {
	wb := newTreeBuilder()
	fs := wb.Build()

	b := loadModule(t, wb, "b")
	fs.AddFile(wb.DescriptorPath("a"), []byte("name: [a\n"))

	_, err := descriptor.New(fs).Load(wb.DescriptorPath("c"))
	require.ErrorIs(t, err, errs.ErrDescriptor)

	ws := New(descriptor.New(fs))
	modules, err := ws.Discover(b)
	require.ErrorIs(t, err, errs.ErrWorkspaceLoad)
	require.Nil(t, modules)
}

func TestDiscover_BuildModulesKeepLiveInstances(t *testing.T) {
	wb := newTreeBuilder()
	fs := wb.Build()

	live := loadModule(t, wb, "a")
	ws := New(descriptor.New(fs), WithModules(live))

	modules, err := ws.Discover(loadModule(t, wb, "a"))
	require.NoError(t, err)
	require.Same(t, live, modules[0])
	require.True(t, ws.Has(models.ModuleID{GroupID: "com.example", ArtifactID: "c", Packaging: "jar", Version: "1.0.0"}))
}

func TestDiscover_GoWorkspace(t *testing.T) {
	fs := NewWorkspaceBuilder("/repo").
		AddFile("go.work", "go 1.24\n\nuse (\n\t./cli\n\t./lib\n)\n").
		AddFile("cli/go.mod", "module github.com/acme/cli\n").
		AddFile("lib/go.mod", "module github.com/acme/lib\n").
		Build()

	loader := descriptor.New(fs)
	start, err := loader.Load("/repo/cli")
	require.NoError(t, err)

	modules, err := New(loader).Discover(start)
	require.NoError(t, err)
	require.Equal(t, []string{"cli", "repo", "lib"}, names(modules))
}

type countingLoader struct {
	descriptor.Loader
	loads map[string]int
}

func (l *countingLoader) Load(path string) (*models.Module, error) {
	l.loads[path]++
	return l.Loader.Load(path)
}
