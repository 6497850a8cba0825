package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fonsecajr/blk-engine/pkg/blk"
	"github.com/fonsecajr/blk-engine/pkg/logging"
)

var rootConfiguration struct {
	// root is the managed root directory; defaults to the current directory.
	root string
	// logLevel selects the verbosity of diagnostic logging.
	logLevel string
	// version requests that the version be printed instead of running a
	// subcommand.
	version bool
}

func rootMain(command *cobra.Command, arguments []string) {
	if rootConfiguration.version {
		fmt.Println(blk.Version)
		return
	}
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "blk",
	Short: "blk captures and restores snapshots of a managed content tree",
	Run:   rootMain,
}

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVarP(&rootConfiguration.root, "root", "C", cwd, "Path to the managed root directory")
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "info", "Log level: disabled, error, warn, info, debug")

	rootCommand.Flags().BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(
		initCommand,
		saveCommand,
		listCommand,
		restoreCommand,
		deleteCommand,
		diffCommand,
		importScopesCommand,
	)
}

// resolveLogger builds the root logger for the process from the configured
// --log-level flag.
func resolveLogger() *logging.Logger {
	level, ok := logging.NameToLevel(rootConfiguration.logLevel)
	if !ok {
		level = logging.LevelInfo
	}
	return logging.NewLogger(level)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
