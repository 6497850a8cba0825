package main

import (
	"fmt"

	"github.com/spf13/cobra"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/engine"
	"github.com/fonsecajr/blk-engine/pkg/progress"
)

var saveConfiguration struct {
	parent     string
	exclusions []string
}

func saveMain(command *cobra.Command, arguments []string) error {
	name := arguments[0]

	logger := resolveLogger()
	e, err := engine.Open(rootConfiguration.root, logger)
	if err != nil {
		return err
	}

	var parentID *string
	if saveConfiguration.parent != "" {
		parentID = &saveConfiguration.parent
	}

	var saved string
	if err := blkcmd.RunWithProgress(func(stream *progress.Stream) error {
		m, err := e.SaveDelta(name, parentID, saveConfiguration.exclusions, stream)
		if err != nil {
			return err
		}
		saved = m.ID
		return nil
	}); err != nil {
		return err
	}

	fmt.Println("saved set", saved)
	return nil
}

var saveCommand = &cobra.Command{
	Use:   "save <name>",
	Short: "Capture the current on-disk state as a new set",
	Args:  cobra.ExactArgs(1),
	Run:   blkcmd.Mainify(saveMain),
}

func init() {
	flags := saveCommand.Flags()
	flags.StringVar(&saveConfiguration.parent, "parent", "", "Parent set id (omit for a new root set)")
	flags.StringSliceVar(&saveConfiguration.exclusions, "exclude", nil, "Glob or substring exclusion pattern (repeatable)")
}
