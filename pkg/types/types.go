// Package types holds the core types shared across pot's packages.
package types

import "io/fs"

// FS abstracts the filesystem operations pot performs so that
// commands can be exercised against an injected implementation.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}

// Action is the placement strategy for a dotfile.
type Action string

const (
	// ActionSymlink symlinks the target to the stored file (the default)
	ActionSymlink Action = "symlink"

	// ActionCopy copies the stored file to the target
	ActionCopy Action = "copy"

	// ActionInclude appends a shell inclusion line for the stored file
	// to the target file
	ActionInclude Action = "include"
)

// Valid reports whether a is one of the known placement actions.
func (a Action) Valid() bool {
	switch a {
	case ActionSymlink, ActionCopy, ActionInclude:
		return true
	}
	return false
}

// Dotfile represents a single tracked file stored in the managed store.
//
//	Name   - name of the file inside the store's dotfiles directory
//	Target - destination path in the system (defaults to ~/<name>)
//	Action - placement strategy, one of symlink/copy/include
type Dotfile struct {
	Name   string `koanf:"name" yaml:"name"`
	Target string `koanf:"target" yaml:"target"`
	Action Action `koanf:"action" yaml:"action"`
}
