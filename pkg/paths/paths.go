// Package paths provides centralized path handling for pot.
// It resolves the managed store location and provides a consistent
// API for the paths the rest of the codebase needs.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/mgolubev/pot/pkg/errors"
)

// Environment variable names
const (
	// EnvPotHome is the primary environment variable for the store location
	EnvPotHome = "POT_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Store layout constants. These define pot's on-disk structure and are
// not user-configurable; the manifest filename itself is (pkg/config).
const (
	// DefaultStore is the fallback store location
	DefaultStore = "~/.pot"

	// DotfilesDirName is the directory inside the store holding tracked files
	DotfilesDirName = "dotfiles"

	// DefaultManifestName is the default name of the manifest file
	DefaultManifestName = "config.yaml"
)

// Paths resolves the managed store location and derived paths.
type Paths struct {
	storeRoot    string
	manifestName string
	home         string
}

// New resolves the store root. Resolution order: the explicit location
// argument, then $POT_HOME, then the fallback (usually from pkg/config,
// DefaultStore when empty). manifestName falls back to DefaultManifestName.
func New(location, fallback, manifestName string) (*Paths, error) {
	home := homeDir()
	if home == "" {
		return nil, errors.New(errors.ErrInternal, "cannot determine home directory")
	}

	if fallback == "" {
		fallback = DefaultStore
	}
	if manifestName == "" {
		manifestName = DefaultManifestName
	}

	root := location
	if root == "" {
		root = os.Getenv(EnvPotHome)
	}
	if root == "" {
		root = fallback
	}

	root = expandHome(root, home)
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid store location %q", root)
	}

	return &Paths{
		storeRoot:    abs,
		manifestName: manifestName,
		home:         home,
	}, nil
}

// StoreRoot returns the resolved managed store directory
func (p *Paths) StoreRoot() string {
	return p.storeRoot
}

// ManifestPath returns the path of the manifest file inside the store
func (p *Paths) ManifestPath() string {
	return filepath.Join(p.storeRoot, p.manifestName)
}

// DotfilesDir returns the directory inside the store holding tracked files
func (p *Paths) DotfilesDir() string {
	return filepath.Join(p.storeRoot, DotfilesDirName)
}

// DotfilePath returns the stored path for a tracked file name
func (p *Paths) DotfilePath(name string) string {
	return filepath.Join(p.DotfilesDir(), name)
}

// HomeDir returns the user's home directory
func (p *Paths) HomeDir() string {
	return p.home
}

// ExpandHome expands a leading ~ to the user's home directory
func (p *Paths) ExpandHome(path string) string {
	return expandHome(path, p.home)
}

// AbbreviateHome replaces a leading home directory prefix with ~ so that
// manifest entries stay portable across machines.
func (p *Paths) AbbreviateHome(path string) string {
	if path == p.home {
		return "~"
	}
	if strings.HasPrefix(path, p.home+string(filepath.Separator)) {
		return "~" + path[len(p.home):]
	}
	return path
}

// ConfigFilePath returns the path of the user settings file under the
// XDG config directory.
func ConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome, "pot", "config.toml")
}

// homeDir prefers the HOME env var for testability, falling back to the OS
func homeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
