// Package store manages the lifecycle of the managed store: creating it,
// bootstrapping it from a git repository, and capturing live files into it.
package store

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/mgolubev/pot/pkg/errors"
	"github.com/mgolubev/pot/pkg/filesystem"
	"github.com/mgolubev/pot/pkg/logging"
	"github.com/mgolubev/pot/pkg/manifest"
	"github.com/mgolubev/pot/pkg/paths"
	"github.com/mgolubev/pot/pkg/types"
)

// InitOptions contains options for the Init operation
type InitOptions struct {
	// Paths resolves the store location
	Paths *paths.Paths
	// GitURL, when set, is cloned into the store's dotfiles directory
	GitURL string
	// FS is the filesystem to use (optional, defaults to the OS filesystem)
	FS types.FS
	// Git runs the version-control commands (optional, defaults to exec git)
	Git Runner
}

// InitResult describes what Init created
type InitResult struct {
	StoreRoot    string
	ManifestPath string
	// Seeded holds the names of pre-existing dotfiles recorded in the
	// fresh manifest (relevant after a git clone)
	Seeded []string
}

// Init creates the managed store: the store directory, its dotfiles
// subdirectory, and a manifest seeded from any dotted files already in
// dotfiles/. With GitURL the dotfiles directory is cloned instead of
// created. A store that already has a manifest is refused.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	logger := logging.GetLogger("store.init")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	git := opts.Git
	if git == nil {
		git = NewExecRunner()
	}

	root := opts.Paths.StoreRoot()
	manifestPath := opts.Paths.ManifestPath()

	if _, err := fsys.Stat(manifestPath); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "store %s is already initialized", root)
	}

	if err := fsys.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot create store %s", root)
	}

	dotfilesDir := opts.Paths.DotfilesDir()
	if opts.GitURL != "" {
		logger.Info().Str("url", opts.GitURL).Msg("Cloning dotfiles repository")
		if err := git.Clone(ctx, root, opts.GitURL, paths.DotfilesDirName); err != nil {
			return nil, errors.Wrapf(err, errors.ErrBootstrapFailed, "cloning %s failed", opts.GitURL)
		}
		if _, err := fsys.Stat(filepath.Join(dotfilesDir, ".gitmodules")); err == nil {
			if err := git.SubmoduleUpdate(ctx, dotfilesDir); err != nil {
				return nil, errors.Wrap(err, errors.ErrBootstrapFailed, "submodule initialization failed")
			}
		}
	}

	if err := fsys.MkdirAll(dotfilesDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", dotfilesDir)
	}

	seeded, err := seedDotfiles(fsys, dotfilesDir)
	if err != nil {
		return nil, err
	}

	m := &manifest.Manifest{}
	for _, name := range seeded {
		m.Dotfiles = append(m.Dotfiles, types.Dotfile{
			Name:   name,
			Target: path.Join("~", name),
			Action: types.ActionSymlink,
		})
	}
	if err := manifest.Save(fsys, manifestPath, m); err != nil {
		return nil, err
	}

	logger.Info().
		Str("store", root).
		Int("seeded", len(seeded)).
		Msg("Store initialized")

	return &InitResult{
		StoreRoot:    root,
		ManifestPath: manifestPath,
		Seeded:       seeded,
	}, nil
}

// seedDotfiles lists the dotted files already present in the dotfiles
// directory, skipping git bookkeeping files.
func seedDotfiles(fsys types.FS, dotfilesDir string) ([]string, error) {
	entries, err := fsys.ReadDir(dotfilesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dotfilesDir)
	}

	var seeded []string
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != '.' {
			continue
		}
		if name == ".git" || name == ".gitmodules" {
			continue
		}
		seeded = append(seeded, name)
	}
	sort.Strings(seeded)
	return seeded, nil
}
