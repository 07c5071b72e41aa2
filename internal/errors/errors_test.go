package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_NilPassesThrough(t *testing.T) {
	require.NoError(t, Wrapf(nil, "context %d", 1))
	require.NoError(t, Categorize(ErrCorruptState, nil, "ctx"))
}

func TestWrap_PreservesChain(t *testing.T) {
	err := Wrapf(ErrMissingState, "module %s", "a")
	require.True(t, Is(err, ErrMissingState))
	require.Equal(t, "module a: missing reactor state", err.Error())
}

func TestCategorize_KeepsCategoryAndCause(t *testing.T) {
	err := Categorize(ErrWorkspaceLoad, fs.ErrNotExist, "load %s", "/ws/a")

	require.True(t, Is(err, ErrWorkspaceLoad))
	require.True(t, Is(err, fs.ErrNotExist))
	require.Equal(t, "workspace load failure: load /ws/a: file does not exist", err.Error())
}

func TestNew_IsDistinct(t *testing.T) {
	a, b := New("boom"), New("boom")
	require.Equal(t, "boom", a.Error())
	require.False(t, Is(a, b))
	require.True(t, Is(Wrapf(a, "ctx"), a))
}
