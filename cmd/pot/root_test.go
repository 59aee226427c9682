package pot_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mgolubev/pot/cmd/pot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := pot.NewRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("POT_HOME", "")
	return home
}

func TestInitCmd(t *testing.T) {
	home := setupHome(t)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized pot store")

	assert.DirExists(t, filepath.Join(home, ".pot", "dotfiles"))
	assert.FileExists(t, filepath.Join(home, ".pot", "config.yaml"))
}

func TestInitCmd_AlreadyInitialized(t *testing.T) {
	setupHome(t)

	_, err := run(t, "init")
	require.NoError(t, err)

	_, err = run(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestInitCmd_ExplicitLocation(t *testing.T) {
	home := setupHome(t)
	location := filepath.Join(home, "custom-store")

	_, err := run(t, "init", location)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(location, "dotfiles"))
}

func TestInstallCmd(t *testing.T) {
	home := setupHome(t)

	_, err := run(t, "init")
	require.NoError(t, err)

	dotfiles := filepath.Join(home, ".pot", "dotfiles")
	require.NoError(t, os.WriteFile(filepath.Join(dotfiles, ".vimrc"), []byte("set nu\n"), 0644))
	manifest := "dotfiles:\n  - name: .vimrc\n    target: ~/.vimrc\n    action: symlink\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pot", "config.yaml"), []byte(manifest), 0644))

	out, err := run(t, "install")
	require.NoError(t, err)
	assert.Contains(t, out, "Symlinked .vimrc")

	content, rerr := os.ReadFile(filepath.Join(home, ".vimrc"))
	require.NoError(t, rerr)
	assert.Equal(t, "set nu\n", string(content))
}

func TestInstallCmd_ConflictAndForce(t *testing.T) {
	home := setupHome(t)

	_, err := run(t, "init")
	require.NoError(t, err)

	dotfiles := filepath.Join(home, ".pot", "dotfiles")
	require.NoError(t, os.WriteFile(filepath.Join(dotfiles, ".vimrc"), []byte("set nu\n"), 0644))
	manifest := "dotfiles:\n  - name: .vimrc\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pot", "config.yaml"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".vimrc"), []byte("unrelated\n"), 0644))

	_, err = run(t, "install")
	require.Error(t, err)

	content, rerr := os.ReadFile(filepath.Join(home, ".vimrc"))
	require.NoError(t, rerr)
	assert.Equal(t, "unrelated\n", string(content))

	_, err = run(t, "install", "--force")
	require.NoError(t, err)

	content, rerr = os.ReadFile(filepath.Join(home, ".vimrc"))
	require.NoError(t, rerr)
	assert.Equal(t, "set nu\n", string(content))
}

func TestInstallCmd_MissingManifest(t *testing.T) {
	setupHome(t)

	_, err := run(t, "install")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pot init")
}

func TestGrubCmd(t *testing.T) {
	home := setupHome(t)

	_, err := run(t, "init")
	require.NoError(t, err)

	original := filepath.Join(home, ".gitconfig")
	require.NoError(t, os.WriteFile(original, []byte("[user]\n"), 0644))

	out, err := run(t, "grub", original)
	require.NoError(t, err)
	assert.Contains(t, out, "Grabbed")

	target, rerr := os.Readlink(original)
	require.NoError(t, rerr)
	assert.Equal(t, filepath.Join(home, ".pot", "dotfiles", ".gitconfig"), target)
}

func TestVersionFlag(t *testing.T) {
	setupHome(t)

	out, err := run(t, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "pot version")
}

func TestUnknownCommand(t *testing.T) {
	setupHome(t)

	_, err := run(t, "frobnicate")
	require.Error(t, err)
}

func TestNoCommand(t *testing.T) {
	setupHome(t)

	_, err := run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}
