package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadEnvFilesFromDir(t *testing.T) {
	t.Run("missing files are fine", func(t *testing.T) {
		require.NoError(t, LoadEnvFilesFromDir(t.TempDir()))
	})

	t.Run("custom overrides base", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("TEMPLATE_SYNC_PR_BASE", "")
		t.Setenv("TEMPLATE_SYNC_TEMPLATE", "")
		writeEnvFile(t, dir, BaseFile, "TEMPLATE_SYNC_PR_BASE=main\nTEMPLATE_SYNC_TEMPLATE=org/base\n")
		writeEnvFile(t, dir, CustomFile, "TEMPLATE_SYNC_TEMPLATE=org/custom # override\n")

		require.NoError(t, LoadEnvFilesFromDir(dir))
		assert.Equal(t, "main", os.Getenv("TEMPLATE_SYNC_PR_BASE"))
		assert.Equal(t, "org/custom", os.Getenv("TEMPLATE_SYNC_TEMPLATE"))
	})

	t.Run("only custom file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("TEMPLATE_SYNC_DRY_RUN", "")
		writeEnvFile(t, dir, CustomFile, "TEMPLATE_SYNC_DRY_RUN=true\n")

		require.NoError(t, LoadEnvFilesFromDir(dir))
		assert.Equal(t, "true", os.Getenv("TEMPLATE_SYNC_DRY_RUN"))
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, BaseFile, "NOT VALID LINE WITHOUT EQUALS 'unterminated\n")

		err := LoadEnvFilesFromDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load")
	})
}

func TestGetEnvWithFallback(t *testing.T) {
	t.Setenv("TEMPLATE_SYNC_TEST_VALUE", "")
	assert.Equal(t, "fallback", GetEnvWithFallback("TEMPLATE_SYNC_TEST_VALUE", "fallback"))

	t.Setenv("TEMPLATE_SYNC_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvWithFallback("TEMPLATE_SYNC_TEST_VALUE", "fallback"))
}

func TestFirstNonEmpty(t *testing.T) {
	t.Setenv("TEMPLATE_SYNC_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "from-github")
	t.Setenv("GH_TOKEN", "from-gh")

	assert.Equal(t, "from-github", FirstNonEmpty("TEMPLATE_SYNC_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"))
	assert.Empty(t, FirstNonEmpty())
}
