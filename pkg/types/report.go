package types

import (
	"encoding/json"
	"time"
)

// Entry pairs a PlannedLink with its outcome. Index is the position of the
// link in the planned sequence.
type Entry struct {
	Index   int
	Link    PlannedLink
	Outcome LinkOutcome
}

// Counts aggregates outcomes by status.
type Counts struct {
	Created  int `json:"created"`
	BackedUp int `json:"backed_up"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Total is the number of executed entries.
func (c Counts) Total() int {
	return c.Created + c.BackedUp + c.Skipped + c.Failed
}

// RunReport is the ordered record of one invocation.
type RunReport struct {
	Entries []Entry
	Counts  Counts
	// Planned is the length of the planned sequence; it exceeds
	// len(Entries) only when the run was interrupted.
	Planned     int
	Interrupted bool
	Duration    time.Duration
}

// Add appends an entry and updates the counts.
func (r *RunReport) Add(e Entry) {
	r.Entries = append(r.Entries, e)
	switch e.Outcome.Status {
	case StatusCreated:
		r.Counts.Created++
	case StatusBackedUpAndCreated:
		r.Counts.BackedUp++
	case StatusSkipped:
		r.Counts.Skipped++
	case StatusFailed:
		r.Counts.Failed++
	}
}

// HasFailures reports whether any entry failed.
func (r *RunReport) HasFailures() bool {
	return r.Counts.Failed > 0
}

// Failures returns the failed entries in planned order.
func (r *RunReport) Failures() []Entry {
	var failed []Entry
	for _, e := range r.Entries {
		if e.Outcome.Status == StatusFailed {
			failed = append(failed, e)
		}
	}
	return failed
}

type entryJSON struct {
	Index       int    `json:"index"`
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Status      string `json:"status"`
	BackupPath  string `json:"backup_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

// MarshalJSON renders the entry with its outcome flattened.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Index:       e.Index,
		Kind:        e.Link.Kind.String(),
		Source:      e.Link.Source,
		Destination: e.Link.Destination,
		Status:      e.Outcome.Status.String(),
		BackupPath:  e.Outcome.BackupPath,
	}
	if e.Outcome.Err != nil {
		out.Error = e.Outcome.Err.Error()
	}
	return json.Marshal(out)
}

// MarshalJSON renders the report for machine consumption.
func (r *RunReport) MarshalJSON() ([]byte, error) {
	entries := r.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(struct {
		Entries     []Entry `json:"entries"`
		Counts      Counts  `json:"counts"`
		Planned     int     `json:"planned"`
		Interrupted bool    `json:"interrupted"`
		DurationMs  int64   `json:"duration_ms"`
	}{
		Entries:     entries,
		Counts:      r.Counts,
		Planned:     r.Planned,
		Interrupted: r.Interrupted,
		DurationMs:  r.Duration.Milliseconds(),
	})
}
