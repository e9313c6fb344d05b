package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModule = `module ietf-netconf {
  namespace "urn:ietf:params:xml:ns:netconf:base:1.0";
  prefix nc;
  revision 2011-06-01;
}
`

func writeTestModule(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yin"), []byte(testModule), 0o644))
}

func TestLoadModuleFromDirFallback(t *testing.T) {
	dir := t.TempDir()
	writeTestModule(t, dir, "ietf-netconf")

	ctx := NewContext(dir)
	m, err := ctx.LoadModule("ietf-netconf", "")
	require.NoError(t, err)
	assert.Equal(t, "ietf-netconf", m.Name)
}

func TestLoadModuleIsCachedAfterFirstLoad(t *testing.T) {
	dir := t.TempDir()
	writeTestModule(t, dir, "ietf-netconf")

	ctx := NewContext(dir)
	_, err := ctx.LoadModule("ietf-netconf", "")
	require.NoError(t, err)

	_, ok := ctx.Module("ietf-netconf")
	assert.True(t, ok)

	// A second load must not re-read the directory; removing the file
	// proves the cached module is returned rather than re-fetched.
	require.NoError(t, os.Remove(filepath.Join(dir, "ietf-netconf.yin")))
	_, err = ctx.LoadModule("ietf-netconf", "")
	assert.NoError(t, err)
}

func TestLoadModuleMissingFileReturnsSchemaError(t *testing.T) {
	ctx := NewContext(t.TempDir())
	_, err := ctx.LoadModule("does-not-exist", "")
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "does-not-exist", schemaErr.Module)
}

func TestLoadModulePrefersFetchOverDir(t *testing.T) {
	dir := t.TempDir()
	// A directory copy exists too, but should never be read since fetch
	// succeeds first.
	writeTestModule(t, dir, "ietf-netconf")

	ctx := NewContext(dir)
	called := false
	ctx.SetFetch(func(name, revision string) (string, error) {
		called = true
		return testModule, nil
	})

	_, err := ctx.LoadModule("ietf-netconf", "")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestLoadModuleFallsBackToDirWhenFetchFails(t *testing.T) {
	dir := t.TempDir()
	writeTestModule(t, dir, "ietf-netconf")

	ctx := NewContext(dir)
	ctx.SetFetch(func(name, revision string) (string, error) {
		return "", assertErr
	})

	m, err := ctx.LoadModule("ietf-netconf", "")
	require.NoError(t, err)
	assert.Equal(t, "ietf-netconf", m.Name)
}

var assertErr = &Error{Module: "x", err: os.ErrNotExist}

func TestRetrieveMarksWatcherOnDirFallbackFailure(t *testing.T) {
	dir := t.TempDir()
	ctx := NewContext(dir)
	ctx.SetFetch(func(name, revision string) (string, error) {
		return "", assertErr
	})

	w := &DirWatcher{failed: make(map[string]struct{})}
	ctx.SetWatcher(w)

	_, err := ctx.LoadModule("missing-module", "")
	require.Error(t, err)
	assert.False(t, w.Forgiven("missing-module"))
}

func TestModuleNamesReflectsLoaded(t *testing.T) {
	dir := t.TempDir()
	writeTestModule(t, dir, "ietf-netconf")

	ctx := NewContext(dir)
	_, err := ctx.LoadModule("ietf-netconf", "")
	require.NoError(t, err)

	assert.Contains(t, ctx.ModuleNames(), "ietf-netconf")
}
