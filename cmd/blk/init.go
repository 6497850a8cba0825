package main

import (
	"github.com/spf13/cobra"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/engine"
	"github.com/fonsecajr/blk-engine/pkg/progress"
)

func initMain(command *cobra.Command, arguments []string) error {
	logger := resolveLogger()
	return blkcmd.RunWithProgress(func(stream *progress.Stream) error {
		_, err := engine.Init(rootConfiguration.root, logger, stream)
		return err
	})
}

var initCommand = &cobra.Command{
	Use:   "init",
	Short: "Initialize a managed root, capturing its current state as the initial Vanilla set",
	Args:  cobra.NoArgs,
	Run:   blkcmd.Mainify(initMain),
}
