package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hybridsearch")
}

func TestVersionCommandShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"go_version"`)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "config", "init", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "hybridsearch.yaml"))

	// Second init without --force refuses to overwrite.
	_, err = execute(t, "config", "init", "--config-dir", dir)
	require.Error(t, err)

	out, err = execute(t, "config", "show", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "hybrid_weights")
	assert.Contains(t, out, "provider: static")
}

func TestIndexCommandUsesSampleCatalog(t *testing.T) {
	out, err := execute(t, "index", "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 8 products")
}

func TestSearchCommandText(t *testing.T) {
	out, err := execute(t, "search", "turmeric", "--config-dir", t.TempDir(), "--mode", "keyword_only")
	require.NoError(t, err)
	assert.Contains(t, out, "Organic Turmeric Powder")
	assert.Contains(t, out, "results for \"turmeric\"")
}

func TestSearchCommandJSON(t *testing.T) {
	out, err := execute(t, "search", "honey", "--config-dir", t.TempDir(), "--mode", "keyword_only", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"results"`)
	assert.Contains(t, out, "Raw Forest Honey")
}

func TestSearchCommandRejectsInvalidMode(t *testing.T) {
	_, err := execute(t, "search", "honey", "--config-dir", t.TempDir(), "--mode", "psychic")
	require.Error(t, err)
}
