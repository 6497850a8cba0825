package cmd

import (
	"github.com/spf13/cobra"
)

// Mainify wraps a non-standard Cobra entry point (one returning an error)
// and produces a standard Cobra entry point, so that commands can rely on
// defer-based cleanup that wouldn't run if they terminated the process
// directly.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
