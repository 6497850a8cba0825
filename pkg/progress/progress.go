// Package progress implements the Progress Stream component (spec §4.J):
// a typed, single-producer/single-consumer channel of (percent, message)
// updates that a background worker sends while a long-running operation
// executes. Percent is monotone non-decreasing per operation; a terminal
// event always carries percent = 100.0.
package progress

import "sync"

// Update is a single progress event.
type Update struct {
	// Percent is the operation's completion percentage, in [0, 100].
	Percent float64
	// Message is a human-readable status line.
	Message string
}

// Stream is a single-use progress channel for one long-running operation.
// The zero value is not usable; construct with NewStream. A nil *Stream is
// safe to use (every method becomes a no-op), so components can accept one
// unconditionally the same way they accept a possibly-nil *logging.Logger.
type Stream struct {
	updates   chan Update
	last      float64
	closeOnce sync.Once
}

// NewStream creates a Stream with the given channel buffer depth.
func NewStream(buffer int) *Stream {
	return &Stream{updates: make(chan Update, buffer)}
}

// Updates returns the read side of the stream, for the consumer (UI) to
// range/poll over.
func (s *Stream) Updates() <-chan Update {
	if s == nil {
		return nil
	}
	return s.updates
}

// Report sends a progress update. percent is clamped to be monotone
// non-decreasing relative to the last reported value, per spec §4.J.
func (s *Stream) Report(percent float64, message string) {
	if s == nil {
		return
	}
	if percent < s.last {
		percent = s.last
	}
	s.last = percent
	s.updates <- Update{Percent: percent, Message: message}
}

// Warn reports a non-fatal error on the stream without advancing percent,
// rendering err down to its message the same way every other diagnostic
// collapses to a string at the progress-stream boundary.
func (s *Stream) Warn(err error) {
	if s == nil || err == nil {
		return
	}
	s.updates <- Update{Percent: s.last, Message: "warning: " + err.Error()}
}

// Done sends the terminal update (percent = 100.0) and closes the stream.
// The consumer should treat percent >= 100.0 as terminal, per spec §6.
func (s *Stream) Done(message string) {
	if s == nil {
		return
	}
	s.Report(100.0, message)
	s.Close()
}

// Close closes the stream's channel, unblocking any consumer ranging over
// Updates. It's safe to call more than once (including after Done, which
// already closes it) and safe to call on a nil Stream. Callers that drive an
// operation to completion without it calling Done on every path — for
// example, an early error return — should still Close the stream so the
// consumer side doesn't block forever waiting for a close that never comes.
func (s *Stream) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		close(s.updates)
	})
}

