package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/fonsecajr/blk-engine/pkg/diff"
	"github.com/fonsecajr/blk-engine/pkg/manifest"
	"github.com/fonsecajr/blk-engine/pkg/progress"
)

func timeFromUnix(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}

// statusLineFormat truncates/pads printed status lines to a fixed width so
// that a carriage return fully overwrites whatever was there before.
const statusLineFormat = "\r%-80.80s"

// IsTerminal reports whether standard output is attached to an interactive
// terminal, the same check the teacher's output formatting gates on.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// StatusLinePrinter renders a single, repeatedly overwritten status line for
// a progress.Stream's updates.
type StatusLinePrinter struct {
	nonEmpty bool
}

// Print overwrites the status line with message.
func (p *StatusLinePrinter) Print(message string) {
	fmt.Fprintf(color.Output, statusLineFormat, message)
	p.nonEmpty = true
}

// Clear wipes the status line and returns the cursor to its start.
func (p *StatusLinePrinter) Clear() {
	if !p.nonEmpty {
		return
	}
	p.Print("")
	fmt.Fprint(os.Stdout, "\r")
	p.nonEmpty = false
}

// RenderProgress drains stream, printing each update to a status line, and
// clears the line once the stream closes. It's meant to be run synchronously
// by the calling command after kicking off the underlying operation in a
// goroutine (or, for operations fast enough not to need a background
// goroutine, alongside a buffered stream drained after the fact).
func RenderProgress(stream *progress.Stream) {
	if stream == nil {
		return
	}
	printer := &StatusLinePrinter{}
	for update := range stream.Updates() {
		printer.Print(fmt.Sprintf("[%5.1f%%] %s", update.Percent, update.Message))
	}
	printer.Clear()
}

// PrintSets renders a list of manifests as a human-readable table.
func PrintSets(sets []*manifest.Manifest) {
	if len(sets) == 0 {
		fmt.Println("No sets found.")
		return
	}
	for _, m := range sets {
		parent := "<root>"
		if m.ParentID != nil {
			parent = *m.ParentID
		}
		created := humanize.Time(timeFromUnix(m.CreatedAt))
		fmt.Printf("%s\n", color.CyanString(m.ID))
		fmt.Printf("\tName: %s\n", m.Name)
		fmt.Printf("\tParent: %s\n", parent)
		fmt.Printf("\tCreated: %s\n", created)
		if len(m.DeletedPaths) > 0 {
			fmt.Printf("\tTombstones: %d\n", len(m.DeletedPaths))
		}
	}
}

// PrintDiff renders a diff.Summary.
func PrintDiff(summary diff.Summary) {
	if !summary.Dirty {
		color.Green("Clean: no changes since the last saved set.\n")
		return
	}
	fmt.Printf(
		"Changed: %s new, %s modified, %s deleted\n",
		color.GreenString("%d", summary.New),
		color.YellowString("%d", summary.Modified),
		color.RedString("%d", summary.Deleted),
	)
}
