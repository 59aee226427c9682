// Package manifest reads and writes the store's config.yaml, the mapping
// of tracked dotfiles to their destinations.
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/mgolubev/pot/pkg/errors"
	"github.com/mgolubev/pot/pkg/types"
)

// Manifest is the parsed content of the store's manifest file.
// The dotfiles list keeps the order it has on disk.
type Manifest struct {
	Dotfiles []types.Dotfile `koanf:"dotfiles" yaml:"dotfiles"`
}

// Load parses the manifest at path. A missing file yields
// ErrManifestNotFound, a malformed one ErrManifestParse, and a
// well-formed manifest violating invariants ErrManifestInvalid.
// Load performs no filesystem mutation.
func Load(filesystem types.FS, manifestPath string) (*Manifest, error) {
	data, err := filesystem.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrManifestNotFound,
				"no manifest at %s, run 'pot init' first", manifestPath)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read manifest %s", manifestPath)
	}

	k := koanf.New(".")
	if err := k.Load(&bytesProvider{bytes: data}, kyaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "malformed manifest %s", manifestPath)
	}

	var m Manifest
	if err := k.Unmarshal("", &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "malformed manifest %s", manifestPath)
	}

	m.normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Save serializes the manifest to path, preserving entry order.
func Save(filesystem types.FS, manifestPath string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot serialize manifest")
	}
	if err := filesystem.WriteFile(manifestPath, data, fs.FileMode(0644)); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write manifest %s", manifestPath)
	}
	return nil
}

// Add appends a dotfile entry. Adding a name already present yields
// ErrAlreadyExists.
func (m *Manifest) Add(d types.Dotfile) error {
	for _, existing := range m.Dotfiles {
		if existing.Name == d.Name {
			return errors.Newf(errors.ErrAlreadyExists, "dotfile %q is already tracked", d.Name)
		}
	}
	m.Dotfiles = append(m.Dotfiles, d)
	m.normalize()
	return m.Validate()
}

// Validate checks the manifest invariants: targets unique, actions known,
// names non-empty.
func (m *Manifest) Validate() error {
	targets := make(map[string]string, len(m.Dotfiles))
	for _, d := range m.Dotfiles {
		if d.Name == "" {
			return errors.New(errors.ErrManifestInvalid, "dotfile entry without a name")
		}
		if !d.Action.Valid() {
			return errors.Newf(errors.ErrManifestInvalid,
				"dotfile %q has unknown action %q", d.Name, d.Action)
		}
		if prev, ok := targets[d.Target]; ok {
			return errors.Newf(errors.ErrManifestInvalid,
				"dotfiles %q and %q share target %s", prev, d.Name, d.Target)
		}
		targets[d.Target] = d.Name
	}
	return nil
}

// normalize fills in the defaults the original format allows to be omitted
func (m *Manifest) normalize() {
	for i := range m.Dotfiles {
		if m.Dotfiles[i].Target == "" {
			m.Dotfiles[i].Target = path.Join("~", m.Dotfiles[i].Name)
		}
		if m.Dotfiles[i].Action == "" {
			m.Dotfiles[i].Action = types.ActionSymlink
		}
	}
}

// bytesProvider feeds raw bytes into koanf
type bytesProvider struct {
	bytes []byte
}

func (b *bytesProvider) ReadBytes() ([]byte, error) {
	return b.bytes, nil
}

func (b *bytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("bytesProvider does not support Read")
}
