package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", `
app:
  name: demo
  version: 1.0.0
container:
  name: root
`)
	writeFile(t, dir, "application.test.yml", `
container:
  name: test-root
`)

	got, err := (&FileSource{BasePath: dir, Profile: "test"}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"app":       map[string]any{"name": "demo", "version": "1.0.0"},
		"container": map[string]any{"name": "test-root"},
	}, got)
}

func TestFileSource_Load_Missing(t *testing.T) {
	t.Parallel()

	_, err := (&FileSource{BasePath: t.TempDir()}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_Load_InvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "application.yml", "app: [unclosed")

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application.yml")
}
