package store

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mgolubev/pot/pkg/errors"
	"github.com/mgolubev/pot/pkg/filesystem"
	"github.com/mgolubev/pot/pkg/logging"
	"github.com/mgolubev/pot/pkg/manifest"
	"github.com/mgolubev/pot/pkg/paths"
	"github.com/mgolubev/pot/pkg/types"
)

// GrabOptions contains options for the Grab operation
type GrabOptions struct {
	// Paths resolves the store location
	Paths *paths.Paths
	// Path is the live file to capture into the store
	Path string
	// Force overwrites a stored file of the same name
	Force bool
	// FS is the filesystem to use (optional, defaults to the OS filesystem)
	FS types.FS
}

// GrabResult describes a captured file
type GrabResult struct {
	// OriginalPath is where the file used to live (now a symlink)
	OriginalPath string
	// StoredPath is the file's new location inside the store
	StoredPath string
}

// Grab moves an existing file into the store's dotfiles directory,
// symlinks its original location to the stored file, and records it in
// the manifest. This is how already-deployed configuration comes under
// pot's management.
func Grab(opts GrabOptions) (*GrabResult, error) {
	logger := logging.GetLogger("store.grab")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	m, err := manifest.Load(fsys, opts.Paths.ManifestPath())
	if err != nil {
		return nil, err
	}

	original, err := filepath.Abs(opts.Paths.ExpandHome(opts.Path))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %q", opts.Path)
	}

	info, err := fsys.Lstat(original)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "%s does not exist", original)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is a symlink, refusing to grab it", original)
	}

	name := filepath.Base(original)
	stored := opts.Paths.DotfilePath(name)
	if _, err := fsys.Lstat(stored); err == nil && !opts.Force {
		return nil, errors.Newf(errors.ErrAlreadyExists,
			"%s already exists in the store, use --force to overwrite it", stored)
	}

	if err := fsys.MkdirAll(opts.Paths.DotfilesDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", opts.Paths.DotfilesDir())
	}

	if err := moveFile(fsys, original, stored, info); err != nil {
		return nil, err
	}

	if err := fsys.Symlink(stored, original); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate,
			"cannot symlink %s -> %s", original, stored)
	}

	entry := types.Dotfile{
		Name:   name,
		Target: opts.Paths.AbbreviateHome(original),
		Action: types.ActionSymlink,
	}
	if err := m.Add(entry); err != nil {
		// the file moved fine; an existing manifest entry is not fatal
		if !errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			return nil, err
		}
		logger.Debug().Str("name", name).Msg("Manifest already tracks this dotfile")
	} else if err := manifest.Save(fsys, opts.Paths.ManifestPath(), m); err != nil {
		return nil, err
	}

	logger.Info().
		Str("original", original).
		Str("stored", stored).
		Msg("File grabbed into store")

	return &GrabResult{OriginalPath: original, StoredPath: stored}, nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(fsys types.FS, src, dst string, info fs.FileInfo) error {
	if err := fsys.Rename(src, dst); err == nil {
		return nil
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrFileAccess,
			"cannot move directory %s across filesystems", src)
	}
	data, err := fsys.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}
	if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", dst)
	}
	if err := fsys.Remove(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", src)
	}
	return nil
}
