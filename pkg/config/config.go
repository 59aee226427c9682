// Package config loads pot's application settings.
//
// Settings are layered: embedded defaults, then the optional user config
// file under the XDG config directory, then POT_* environment variables.
// The manifest inside the managed store is a separate concern (pkg/manifest);
// this package only covers the tool's own knobs.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mgolubev/pot/pkg/paths"
)

//go:embed defaults.toml
var defaultConfig []byte

// Settings are the user-tunable knobs of pot
type Settings struct {
	// Store is the default managed store location, used when neither an
	// explicit location nor POT_HOME is given
	Store string `koanf:"store"`

	// Manifest is the name of the manifest file inside the store
	Manifest string `koanf:"manifest"`

	// InclusionFormat is the line appended by the include action,
	// with %s replaced by the stored file path
	InclusionFormat string `koanf:"inclusion_format"`
}

// Load returns the effective settings: defaults, overridden by the user
// config file (if present), overridden by POT_* environment variables.
func Load() (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. User config file, if it exists
	path := paths.ConfigFilePath()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load user config from %s: %w", path, err)
		}
	}

	// 3. Environment overrides (POT_STORE, POT_INCLUSION_FORMAT, ...)
	err := k.Load(env.Provider("POT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "POT_"))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

// rawBytesProvider feeds raw bytes into koanf
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("rawBytesProvider does not support Read")
}
