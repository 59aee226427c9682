package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/mgolubev/pot/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExplicitLocationWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("POT_HOME", filepath.Join(home, "from-env"))

	p, err := paths.New(filepath.Join(home, "explicit"), "", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "explicit"), p.StoreRoot())
}

func TestNew_PotHomeEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("POT_HOME", "~/env-store")

	p, err := paths.New("", "", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "env-store"), p.StoreRoot())
}

func TestNew_Fallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("POT_HOME", "")

	p, err := paths.New("", "", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pot"), p.StoreRoot())
	assert.Equal(t, filepath.Join(home, ".pot", "config.yaml"), p.ManifestPath())
	assert.Equal(t, filepath.Join(home, ".pot", "dotfiles"), p.DotfilesDir())
}

func TestNew_ConfiguredFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("POT_HOME", "")

	p, err := paths.New("", "~/dotfiles-store", "manifest.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "dotfiles-store"), p.StoreRoot())
	assert.Equal(t, filepath.Join(home, "dotfiles-store", "manifest.yaml"), p.ManifestPath())
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := paths.New("", "", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".vimrc"), p.ExpandHome("~/.vimrc"))
	assert.Equal(t, home, p.ExpandHome("~"))
	assert.Equal(t, "/etc/hosts", p.ExpandHome("/etc/hosts"))
}

func TestAbbreviateHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := paths.New("", "", "")
	require.NoError(t, err)

	assert.Equal(t, "~/.vimrc", p.AbbreviateHome(filepath.Join(home, ".vimrc")))
	assert.Equal(t, "~", p.AbbreviateHome(home))
	assert.Equal(t, "/etc/hosts", p.AbbreviateHome("/etc/hosts"))
}

func TestDotfilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("POT_HOME", "")

	p, err := paths.New("", "", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pot", "dotfiles", ".vimrc"), p.DotfilePath(".vimrc"))
}
