package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	blkcmd "github.com/fonsecajr/blk-engine/cmd"
	"github.com/fonsecajr/blk-engine/pkg/engine"
	"github.com/fonsecajr/blk-engine/pkg/progress"
)

var restoreConfiguration struct {
	exclusions []string
	confirmed  bool
}

func restoreMain(command *cobra.Command, arguments []string) error {
	targetID := arguments[0]

	if !restoreConfiguration.confirmed && !confirmRestore(targetID) {
		blkcmd.Warning("restore cancelled")
		return nil
	}

	logger := resolveLogger()
	e, err := engine.Open(rootConfiguration.root, logger)
	if err != nil {
		return err
	}

	return blkcmd.RunWithProgress(func(stream *progress.Stream) error {
		return e.Restore(targetID, restoreConfiguration.exclusions, stream)
	})
}

// confirmRestore reads an interactive y/N confirmation, per spec §4.I's
// note that the engine itself reads no confirmation — the caller owns it.
func confirmRestore(targetID string) bool {
	fmt.Printf("This will wipe and rebuild every managed scope to match %q. Continue? [y/N] ", targetID)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

var restoreCommand = &cobra.Command{
	Use:   "restore <set-id>",
	Short: "Wipe every managed scope and rebuild it to match a set's lineage",
	Args:  cobra.ExactArgs(1),
	Run:   blkcmd.Mainify(restoreMain),
}

func init() {
	flags := restoreCommand.Flags()
	flags.StringSliceVar(&restoreConfiguration.exclusions, "exclude", nil, "Glob or substring exclusion pattern (repeatable) for the post-restore rescan")
	flags.BoolVarP(&restoreConfiguration.confirmed, "yes", "y", false, "Skip the interactive confirmation prompt")
}
