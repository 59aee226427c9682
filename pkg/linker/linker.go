// Package linker applies manifest entries to the filesystem. State is
// never persisted; what exists on disk at the time of the run is the
// only ground truth.
package linker

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mgolubev/pot/pkg/errors"
	"github.com/mgolubev/pot/pkg/filesystem"
	"github.com/mgolubev/pot/pkg/logging"
	"github.com/mgolubev/pot/pkg/manifest"
	"github.com/mgolubev/pot/pkg/paths"
	"github.com/mgolubev/pot/pkg/types"
)

// DefaultInclusionFormat is the line appended by the include action
const DefaultInclusionFormat = ". %s"

// tmpSuffix is used for the create-new-then-rename replacement step
const tmpSuffix = ".pot-tmp"

// Options configures an Install run
type Options struct {
	// Paths resolves the store and target locations
	Paths *paths.Paths
	// Manifest holds the entries to apply
	Manifest *manifest.Manifest
	// Force overwrites conflicting targets
	Force bool
	// FailFast stops processing at the first failing entry
	FailFast bool
	// InclusionFormat overrides DefaultInclusionFormat
	InclusionFormat string
	// FS is the filesystem to use (optional, defaults to the OS filesystem)
	FS types.FS
}

// Status classifies the outcome of a single entry
type Status string

const (
	// StatusLinked means a symlink was created or replaced
	StatusLinked Status = "linked"
	// StatusCopied means the stored file was copied to the target
	StatusCopied Status = "copied"
	// StatusIncluded means the inclusion line was appended to the target
	StatusIncluded Status = "included"
	// StatusUnchanged means the target was already correct
	StatusUnchanged Status = "unchanged"
	// StatusConflict means the target is occupied by unrelated content
	StatusConflict Status = "conflict"
	// StatusMissing means the stored source file does not exist
	StatusMissing Status = "missing"
	// StatusFailed means a filesystem operation failed
	StatusFailed Status = "failed"
)

// EntryResult is the outcome of applying one manifest entry
type EntryResult struct {
	Dotfile types.Dotfile
	// Target is the expanded destination path
	Target string
	Status Status
	Err    error
}

// Result aggregates the outcome of an Install run
type Result struct {
	Entries []EntryResult
	// Aborted is set when fail-fast stopped the run early
	Aborted bool
}

// Failures returns the entries that did not end up in the desired state
func (r *Result) Failures() []EntryResult {
	var failed []EntryResult
	for _, e := range r.Entries {
		switch e.Status {
		case StatusConflict, StatusMissing, StatusFailed:
			failed = append(failed, e)
		}
	}
	return failed
}

// Err summarizes the run: nil when every entry is in the desired state,
// a Conflict error naming the occupied paths, or the first failure.
func (r *Result) Err() error {
	var conflicts []string
	var firstErr error
	for _, e := range r.Entries {
		switch e.Status {
		case StatusConflict:
			conflicts = append(conflicts, e.Target)
		case StatusMissing, StatusFailed:
			if firstErr == nil {
				firstErr = e.Err
			}
		}
	}
	if len(conflicts) > 0 {
		return errors.Newf(errors.ErrConflict,
			"%d target(s) already exist: %s (delete them manually or use --force to overwrite)",
			len(conflicts), strings.Join(conflicts, ", "))
	}
	return firstErr
}

// Install applies every manifest entry. Entries already in the desired
// state are left alone; replacements go through a create-new-then-rename
// step so an interrupted run never leaves a target without a file.
func Install(opts Options) (*Result, error) {
	logger := logging.GetLogger("linker")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	format := opts.InclusionFormat
	if format == "" {
		format = DefaultInclusionFormat
	}

	result := &Result{}
	for _, d := range opts.Manifest.Dotfiles {
		entry := installOne(fsys, opts.Paths, d, opts.Force, format)
		result.Entries = append(result.Entries, entry)

		logger.Debug().
			Str("name", d.Name).
			Str("target", entry.Target).
			Str("status", string(entry.Status)).
			Err(entry.Err).
			Msg("Entry processed")

		if opts.FailFast && entry.Err != nil {
			result.Aborted = true
			break
		}
	}

	return result, result.Err()
}

func installOne(fsys types.FS, p *paths.Paths, d types.Dotfile, force bool, format string) EntryResult {
	src := p.DotfilePath(d.Name)
	dst := p.ExpandHome(d.Target)
	entry := EntryResult{Dotfile: d, Target: dst}

	srcInfo, err := fsys.Stat(src)
	if err != nil {
		entry.Status = StatusMissing
		entry.Err = errors.Wrapf(err, errors.ErrNotFound,
			"dotfile %s doesn't exist, check your manifest", src)
		return entry
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		entry.Status = StatusFailed
		entry.Err = errors.Wrapf(err, errors.ErrFileAccess, "cannot create parent directory for %s", dst)
		return entry
	}

	switch d.Action {
	case types.ActionSymlink:
		entry.Status, entry.Err = installSymlink(fsys, src, dst, force)
	case types.ActionCopy:
		entry.Status, entry.Err = installCopy(fsys, src, dst, srcInfo.Mode().Perm(), force)
	case types.ActionInclude:
		entry.Status, entry.Err = installInclude(fsys, src, dst, format)
	default:
		entry.Status = StatusFailed
		entry.Err = errors.Newf(errors.ErrInvalidInput, "unknown action %q for %s", d.Action, d.Name)
	}
	return entry
}

func installSymlink(fsys types.FS, src, dst string, force bool) (Status, error) {
	info, err := fsys.Lstat(dst)
	if err == nil {
		switch {
		case isSymlink(info):
			if target, rerr := fsys.Readlink(dst); rerr == nil && target == src {
				return StatusUnchanged, nil
			}
			// broken symlinks are always replaceable, live ones need force
			if !force && !isBrokenLink(fsys, dst) {
				return StatusConflict, conflictErr(dst)
			}
		case info.IsDir():
			if !force {
				return StatusConflict, conflictErr(dst)
			}
			// rename cannot replace a directory in place
			if rerr := fsys.RemoveAll(dst); rerr != nil {
				return StatusFailed, errors.Wrapf(rerr, errors.ErrFileAccess, "cannot remove %s", dst)
			}
		default:
			if !force {
				return StatusConflict, conflictErr(dst)
			}
		}
	}

	if err := replaceWithSymlink(fsys, src, dst); err != nil {
		return StatusFailed, err
	}
	return StatusLinked, nil
}

func installCopy(fsys types.FS, src, dst string, perm fs.FileMode, force bool) (Status, error) {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}

	info, lerr := fsys.Lstat(dst)
	if lerr == nil {
		switch {
		case isSymlink(info):
			// a symlink occupying the copy target: broken links and links
			// into the store are replaceable, anything else needs force
			if target, rerr := fsys.Readlink(dst); rerr == nil && target == src {
				break
			}
			if !force && !isBrokenLink(fsys, dst) {
				return StatusConflict, conflictErr(dst)
			}
		case info.IsDir():
			if !force {
				return StatusConflict, conflictErr(dst)
			}
			if rerr := fsys.RemoveAll(dst); rerr != nil {
				return StatusFailed, errors.Wrapf(rerr, errors.ErrFileAccess, "cannot remove %s", dst)
			}
		default:
			existing, rerr := fsys.ReadFile(dst)
			if rerr == nil && bytes.Equal(existing, data) {
				return StatusUnchanged, nil
			}
			if !force {
				return StatusConflict, conflictErr(dst)
			}
		}
	}

	tmp := dst + tmpSuffix
	_ = fsys.Remove(tmp)
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", tmp)
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess, "cannot replace %s", dst)
	}
	return StatusCopied, nil
}

func installInclude(fsys types.FS, src, dst, format string) (Status, error) {
	line := fmt.Sprintf(format, src)

	info, err := fsys.Lstat(dst)
	if err != nil {
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess,
			"include target %s does not exist", dst)
	}

	data, err := fsys.ReadFile(dst)
	if err != nil {
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dst)
	}

	pattern := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(line) + `\s*$`)
	if pattern.Match(data) {
		return StatusUnchanged, nil
	}

	updated := data
	if len(updated) > 0 && updated[len(updated)-1] != '\n' {
		updated = append(updated, '\n')
	}
	updated = append(updated, []byte(line+"\n")...)

	tmp := dst + tmpSuffix
	_ = fsys.Remove(tmp)
	if err := fsys.WriteFile(tmp, updated, info.Mode().Perm()); err != nil {
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", tmp)
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return StatusFailed, errors.Wrapf(err, errors.ErrFileAccess, "cannot replace %s", dst)
	}
	return StatusIncluded, nil
}

// replaceWithSymlink creates the link under a temporary name next to dst
// and renames it into place, so dst is never left without a file.
func replaceWithSymlink(fsys types.FS, src, dst string) error {
	tmp := dst + tmpSuffix
	_ = fsys.Remove(tmp)
	if err := fsys.Symlink(src, tmp); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot symlink %s -> %s", dst, src)
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot replace %s", dst)
	}
	return nil
}

func conflictErr(dst string) error {
	return errors.Newf(errors.ErrConflict,
		"file %s exists, delete it manually or use --force to overwrite it", dst)
}

func isSymlink(info fs.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}

// isBrokenLink reports whether dst is a symlink whose target is gone
func isBrokenLink(fsys types.FS, dst string) bool {
	if info, err := fsys.Lstat(dst); err != nil || !isSymlink(info) {
		return false
	}
	_, err := fsys.Stat(dst)
	return err != nil
}
