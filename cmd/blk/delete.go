package main

import (
	"fmt"

	"github.com/spf13/cobra"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/engine"
)

func deleteMain(command *cobra.Command, arguments []string) error {
	e, err := engine.Open(rootConfiguration.root, resolveLogger())
	if err != nil {
		return err
	}
	deleted, err := e.DeleteSet(arguments[0])
	if err != nil {
		return err
	}
	if len(deleted) > 1 {
		blkcmd.Warning(fmt.Sprintf("cascaded to %d descendant set(s)", len(deleted)-1))
	}
	for _, id := range deleted {
		fmt.Println("deleted", id)
	}
	return nil
}

var deleteCommand = &cobra.Command{
	Use:   "delete <set-id>",
	Short: "Delete a set and every set descended from it",
	Args:  cobra.ExactArgs(1),
	Run:   blkcmd.Mainify(deleteMain),
}
