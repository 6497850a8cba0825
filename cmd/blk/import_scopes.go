package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/config"
)

// scopesDocument is the shape of a human-authored scope-definition file: a
// flat mapping from scope name to absolute (or root-relative) path,
// alongside the canonical JSON config.json the engine itself reads and
// writes.
type scopesDocument struct {
	Scopes map[string]string `yaml:"scopes"`
}

func importScopesMain(command *cobra.Command, arguments []string) error {
	data, err := os.ReadFile(arguments[0])
	if err != nil {
		return errors.Wrap(err, "unable to read scope definition file")
	}

	var doc scopesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "unable to parse scope definition file")
	}
	if len(doc.Scopes) == 0 {
		return errors.New("scope definition file defines no scopes")
	}

	cfg, err := config.Load(rootConfiguration.root)
	if err != nil {
		cfg = config.Default(rootConfiguration.root)
	}
	for name, path := range doc.Scopes {
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootConfiguration.root, path)
		}
		cfg.PathMap[name] = path
	}
	if err := cfg.Save(rootConfiguration.root); err != nil {
		return errors.Wrap(err, "unable to save configuration")
	}

	blkcmd.Warning("imported scopes; run 'blk save' to capture them")
	return nil
}

var importScopesCommand = &cobra.Command{
	Use:   "import-scopes <file.yaml>",
	Short: "Merge scope definitions from a YAML file into the managed root's configuration",
	Args:  cobra.ExactArgs(1),
	Run:   blkcmd.Mainify(importScopesMain),
}
