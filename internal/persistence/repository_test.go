package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
)

func TestRepository_ReadAbsent(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	repo := NewRepository(mfs, NewPropertiesCodec())

	state, err := repo.Read(newModule("jar"))
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestRepository_ReadUnreadable(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/ws/app/target/reactorstate.properties", []byte("main-artifact = x\n"))
	mfs.FailOn("read", "/ws/app/target/reactorstate.properties", errors.New("permission denied"))

	state, err := NewRepository(mfs, NewPropertiesCodec()).Read(newModule("jar"))
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestRepository_ReadCorrupt(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/ws/app/target/reactorstate.json", []byte("not json"))

	_, err := NewRepository(mfs, NewJSONCodec()).Read(newModule("jar"))
	require.ErrorIs(t, err, errs.ErrCorruptState)
	require.Contains(t, err.Error(), "/ws/app/target/reactorstate.json")
}

func TestRepository_SaveCreatesBuildDir(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	repo := NewRepository(mfs, NewJSONCodec())
	state := newState(t, newModule("jar"))

	require.NoError(t, repo.Save(state))
	require.True(t, filesystem.IsDir(mfs, "/ws/app/target"))
	require.True(t, mfs.Exists("/ws/app/target/reactorstate.json"))

	read, err := repo.Read(state.Module)
	require.NoError(t, err)
	require.Equal(t, state, read)
}

func TestRepository_SaveMkdirFailure(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	mfs.FailOn("mkdir", "/ws/app/target", errors.New("read-only file system"))

	err := NewRepository(mfs, NewPropertiesCodec()).Save(newState(t, newModule("jar")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read-only file system")
	require.False(t, mfs.Exists("/ws/app/target/reactorstate.properties"))
}

func TestRepository_Delete(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	repo := NewRepository(mfs, NewPropertiesCodec())
	state := newState(t, newModule("jar"))

	require.NoError(t, repo.Save(state))
	require.NoError(t, repo.Delete(state.Module))
	require.False(t, mfs.Exists(repo.Path(state.Module)))
	require.NoError(t, repo.Delete(state.Module))
}

func TestRepository_EndToEnd(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	repo := NewRepository(mfs, NewPropertiesCodec())

	m := models.NewModule(models.ModuleID{GroupID: "g", ArtifactID: "out", Packaging: "jar", Version: "1"}, "/ws/out", "/ws/out/module.yaml")
	m.OutputDir = "target"
	docsCoords := models.MustParseCoordinates("g:out:jar:docs:1")

	state := models.NewModuleState(m,
		models.NewArtifactState(m.DescriptorCoordinates(), "/ws/out/module.yaml", nil),
		models.NewArtifactState(m.MainCoordinates(), "/ws/out/target/out.jar", nil),
		[]*models.ArtifactState{models.NewArtifactState(docsCoords, "/ws/out/target/out-docs.jar", nil)},
	)
	require.NoError(t, repo.Save(state))
	state = nil

	read, err := repo.Read(m)
	require.NoError(t, err)
	require.Equal(t, "/ws/out/target/out.jar", read.Primary.Location)
	require.Len(t, read.Secondary, 1)
	require.Equal(t, docsCoords, read.Secondary[0].Coordinates)
	require.Equal(t, "/ws/out/target/out-docs.jar", read.Secondary[0].Location)
}
