package progress

import "testing"

func TestReportAndDone(t *testing.T) {
	stream := NewStream(8)
	go func() {
		stream.Report(10, "starting")
		stream.Report(50, "halfway")
		stream.Done("finished")
	}()

	var last Update
	for update := range stream.Updates() {
		last = update
	}
	if last.Percent != 100.0 {
		t.Errorf("expected terminal percent 100.0, got %v", last.Percent)
	}
	if last.Message != "finished" {
		t.Errorf("expected terminal message 'finished', got %q", last.Message)
	}
}

func TestReportClampsToMonotoneNonDecreasing(t *testing.T) {
	stream := NewStream(8)
	go func() {
		stream.Report(50, "a")
		stream.Report(10, "b") // should clamp up to 50
		stream.Done("c")
	}()

	var percents []float64
	for update := range stream.Updates() {
		percents = append(percents, update.Percent)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Errorf("percent decreased: %v", percents)
		}
	}
}

func TestNilStreamIsNoOp(t *testing.T) {
	var stream *Stream
	stream.Report(50, "noop")
	stream.Done("noop")
	stream.Warn(errTest)
	stream.Close()
	if stream.Updates() != nil {
		t.Errorf("expected nil channel from nil stream")
	}
}

func TestCloseAfterDoneDoesNotPanic(t *testing.T) {
	stream := NewStream(2)
	stream.Done("finished")
	stream.Close() // must not panic on a second close
}

func TestCloseUnblocksConsumerOnEarlyReturn(t *testing.T) {
	stream := NewStream(2)
	go func() {
		stream.Report(10, "partial progress")
		stream.Close() // simulates an operation erroring out before Done
	}()

	count := 0
	for range stream.Updates() {
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly 1 update before close, got %d", count)
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }
