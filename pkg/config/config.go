// Package config owns the engine's root configuration file,
// "<root>/.blk/config.json", which maps scope names to absolute paths
// (the "path_map" of spec §6). It also recognizes an optional ".env" file
// alongside the managed root for environment-based overrides, the same
// convenience the teacher and several of the pack's other repositories
// extend via github.com/joho/godotenv.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/blk"
)

// RootScopeName is the reserved scope name that exists after
// initialization and points at the managed project root.
const RootScopeName = "Root"

// envRootVariable and envExcludeVariable are the .env keys the engine
// recognizes for overriding the managed root and a comma-separated list of
// default exclusions, respectively.
const (
	envRootVariable    = "BLK_ROOT"
	envExcludeVariable = "BLK_EXCLUDE"
)

// Config is the persisted engine configuration.
type Config struct {
	// PathMap maps each configured scope name to its absolute root path.
	PathMap map[string]string `json:"path_map"`
}

// Path returns the path to the config file under the given managed root.
func Path(root string) string {
	return filepath.Join(root, blk.MetadataDirectoryName, "config.json")
}

// Default builds the initial configuration for a freshly initialized
// managed root: a single "Root" scope pointing at root itself.
func Default(root string) *Config {
	return &Config{PathMap: map[string]string{RootScopeName: root}}
}

// Load reads the config file under root. A missing file yields the
// unwrapped not-exist error (os.IsNotExist holds for it); an unreadable or
// unparseable file yields a wrapped error. Init and import-scopes fall back
// to Default on any error; Open reports the root as not initialized.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "unable to read config file")
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to parse config file")
	}
	if cfg.PathMap == nil {
		cfg.PathMap = make(map[string]string)
	}
	return &cfg, nil
}

// Save writes the config file under root, creating the metadata directory
// if necessary.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, blk.MetadataDirectoryName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create metadata directory")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal config")
	}
	if err := os.WriteFile(Path(root), data, 0o600); err != nil {
		return errors.Wrap(err, "unable to write config file")
	}
	return nil
}

// Scopes returns the configured scope names.
func (c *Config) Scopes() []string {
	scopes := make([]string, 0, len(c.PathMap))
	for name := range c.PathMap {
		scopes = append(scopes, name)
	}
	return scopes
}

// EnvOverrides loads "<root>/.env" (if present) and returns an override
// root path and a list of additional default exclusions. Both are empty
// when no .env file exists or no relevant keys are set; a missing .env is
// not an error.
func EnvOverrides(root string) (overrideRoot string, extraExclusions []string) {
	envPath := filepath.Join(root, ".env")
	values, err := godotenv.Read(envPath)
	if err != nil {
		return "", nil
	}
	overrideRoot = values[envRootVariable]
	if raw, ok := values[envExcludeVariable]; ok && raw != "" {
		for _, piece := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				extraExclusions = append(extraExclusions, trimmed)
			}
		}
	}
	return overrideRoot, extraExclusions
}
