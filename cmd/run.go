package cmd

import (
	"fmt"

	"github.com/fonsecajr/blk-engine/pkg/progress"
)

// progressBuffer sizes the channel used by RunWithProgress; operations in
// this engine report O(10) updates, so a modest buffer keeps the producer
// from blocking on a slow terminal.
const progressBuffer = 16

// RunWithProgress runs operation on a background goroutine, rendering its
// progress.Stream to a live-updating status line (or, on a non-TTY, letting
// the messages scroll as plain lines), and returns the operation's error.
// The stream is always closed once operation returns, even if it errored
// out before reaching its own Done call, so the rendering loop below never
// blocks waiting on a close that would otherwise never come.
func RunWithProgress(operation func(*progress.Stream) error) error {
	stream := progress.NewStream(progressBuffer)
	result := make(chan error, 1)

	go func() {
		err := operation(stream)
		stream.Close()
		result <- err
	}()

	if IsTerminal() {
		RenderProgress(stream)
	} else {
		for update := range stream.Updates() {
			fmt.Printf("[%5.1f%%] %s\n", update.Percent, update.Message)
		}
	}

	return <-result
}
