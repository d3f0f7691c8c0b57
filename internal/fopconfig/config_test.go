package fopconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesRecipeDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fop.yaml")
	body := `
recipe: simple
guard:
  mode: true
  fail_fast: false
scan:
  permits: 32
bounded:
  concurrency: 8
  timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "simple", cfg.Recipe)
	assert.True(t, cfg.Guard.Mode)
	assert.Equal(t, 32, cfg.Scan.Permits)
	assert.Equal(t, 8, cfg.Bounded.Concurrency)
	assert.Equal(t, "10s", cfg.Bounded.Timeout.String())
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/no/such/fop.yaml")
	require.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("typo_field: 1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("FOP_BUCKET", "my-bucket")
	dir := t.TempDir()
	path := filepath.Join(dir, "fop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sink:\n  bucket: ${FOP_BUCKET}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", cfg.Sink.Bucket)
}
