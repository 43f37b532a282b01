package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := NewWithDefaults(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguageIDs, cfg.Parse.LanguageIDs)
	assert.True(t, cfg.QuickFix.ProviderEnabled("swap-operands", true))
	assert.False(t, cfg.QuickFix.ProviderEnabled("hello", false))
}

func TestNewWithDefaultsOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
quickfix:
  providers:
    hello: true
    add-braces: false
parse:
  extensions: [".cpp", ".ipp"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

	cfg, err := NewWithDefaults(context.Background(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.QuickFix.ProviderEnabled("hello", false))
	assert.False(t, cfg.QuickFix.ProviderEnabled("add-braces", true))
	assert.True(t, cfg.QuickFix.ProviderEnabled("swap-operands", true))
	assert.True(t, cfg.Parse.IsCppFile("/src/impl.IPP"))
	assert.False(t, cfg.Parse.IsCppFile("main.h"))
	assert.Equal(t, DefaultLanguageIDs, cfg.Parse.LanguageIDs)
}

func TestNewWithDefaultsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("quickfix: [1, 2"), 0o600))

	_, err := NewWithDefaults(context.Background(), dir)
	require.Error(t, err)
}

func TestIsCppLanguage(t *testing.T) {
	p := Default().Parse
	assert.True(t, p.IsCppLanguage("cpp"))
	assert.False(t, p.IsCppLanguage("go"))
}

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "compile_commands.json"), []byte("[]"), 0o600))

	found, err := FindWorkspaceRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindWorkspaceRootPrefersConfigFile(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(project, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName), nil, 0o600))

	found, err := FindWorkspaceRoot(project)
	require.NoError(t, err)
	assert.Equal(t, project, found)
}

func TestFindWorkspaceRootMissingDir(t *testing.T) {
	_, err := FindWorkspaceRoot(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, ErrRootNotFound)
}
