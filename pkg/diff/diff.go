// Package diff implements the Diff Engine component (spec §4.E): it
// compares a current scan against a baseline and reports counts of
// new/modified/deleted entries plus a dirtiness flag. Hash equality is the
// sole modification criterion; the scanner's size/mtime reuse heuristic
// plays no role here.
package diff

import "github.com/fonsecajr/blk-engine/pkg/model"

// Summary is the result of comparing a scan against a baseline. It is also
// the payload type carried on the diff operation's dedicated progress
// channel (spec §4.J) — see Stream below.
type Summary struct {
	New      int  `json:"new"`
	Modified int  `json:"modified"`
	Deleted  int  `json:"deleted"`
	Dirty    bool `json:"dirty"`
}

// Stream is the single-shot, typed progress channel for the diff
// operation, distinct from the (percent, message) progress.Stream used by
// every other long-running operation (spec §4.J).
type Stream struct {
	updates chan Summary
}

// NewStream creates a Stream ready to receive exactly one Summary.
func NewStream() *Stream {
	return &Stream{updates: make(chan Summary, 1)}
}

// Updates returns the read side of the stream.
func (s *Stream) Updates() <-chan Summary {
	if s == nil {
		return nil
	}
	return s.updates
}

// Send delivers the final summary and closes the stream.
func (s *Stream) Send(summary Summary) {
	if s == nil {
		return
	}
	s.updates <- summary
	close(s.updates)
}

// Compare diffs current against baseline.
func Compare(current, base model.Baseline) Summary {
	var summary Summary
	for key, entry := range current {
		if baseEntry, ok := base[key]; !ok {
			summary.New++
		} else if baseEntry.Hash != entry.Hash {
			summary.Modified++
		}
	}
	for key := range base {
		if _, ok := current[key]; !ok {
			summary.Deleted++
		}
	}
	summary.Dirty = summary.New+summary.Modified+summary.Deleted > 0
	return summary
}
