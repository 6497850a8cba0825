package main

import (
	"github.com/spf13/cobra"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/engine"
)

func listMain(command *cobra.Command, arguments []string) error {
	e, err := engine.Open(rootConfiguration.root, resolveLogger())
	if err != nil {
		return err
	}
	sets, err := e.ListSets()
	if err != nil {
		return err
	}
	blkcmd.PrintSets(sets)
	return nil
}

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List every saved set",
	Args:  cobra.NoArgs,
	Run:   blkcmd.Mainify(listMain),
}
