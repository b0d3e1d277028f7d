package idutil

import "github.com/google/uuid"

// RunID identifies a single pipeline execution. It appears in log fields and
// run reports so a report can be matched to the log stream that produced it.
type RunID struct{ uuid.UUID }

// NewRunID returns a time-ordered (v7) run identifier.
func NewRunID() (RunID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return RunID{}, err
	}
	return RunID{UUID: u}, nil
}

func ParseRunID(s string) (RunID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, err
	}
	return RunID{UUID: u}, nil
}

func (id RunID) IsZero() bool   { return id.UUID == uuid.Nil }
func (id RunID) String() string { return id.UUID.String() }
