package types

// Status classifies a LinkOutcome.
type Status int

const (
	StatusCreated Status = iota
	StatusSkipped
	StatusBackedUpAndCreated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusSkipped:
		return "skipped"
	case StatusBackedUpAndCreated:
		return "backed-up"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LinkOutcome is the result of executing one PlannedLink.
type LinkOutcome struct {
	Status Status
	// BackupPath is set for StatusBackedUpAndCreated.
	BackupPath string
	// Err is the skip reason for StatusSkipped and the failure for StatusFailed.
	Err error
}

func Created() LinkOutcome { return LinkOutcome{Status: StatusCreated} }

func BackedUpAndCreated(backupPath string) LinkOutcome {
	return LinkOutcome{Status: StatusBackedUpAndCreated, BackupPath: backupPath}
}

func Skipped(reason error) LinkOutcome { return LinkOutcome{Status: StatusSkipped, Err: reason} }

func Failed(err error) LinkOutcome { return LinkOutcome{Status: StatusFailed, Err: err} }

// OK reports whether the outcome does not count as a failure.
func (o LinkOutcome) OK() bool {
	return o.Status != StatusFailed
}
