package ports

import "time"

type OperationRecorder interface {
	RecordOperation(op string, err error, elapsed time.Duration)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordOperation(string, error, time.Duration) {}
