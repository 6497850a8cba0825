package main

import (
	"github.com/spf13/cobra"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/diff"
	"github.com/fonsecajr/blk-engine/pkg/engine"
)

var diffConfiguration struct {
	exclusions []string
}

func diffMain(command *cobra.Command, arguments []string) error {
	e, err := engine.Open(rootConfiguration.root, resolveLogger())
	if err != nil {
		return err
	}
	summary, err := e.Diff(diffConfiguration.exclusions, diff.NewStream())
	if err != nil {
		return err
	}
	blkcmd.PrintDiff(summary)
	return nil
}

var diffCommand = &cobra.Command{
	Use:   "diff",
	Short: "Compare the current on-disk state against the last saved baseline",
	Args:  cobra.NoArgs,
	Run:   blkcmd.Mainify(diffMain),
}

func init() {
	diffCommand.Flags().StringSliceVar(&diffConfiguration.exclusions, "exclude", nil, "Glob or substring exclusion pattern (repeatable)")
}
