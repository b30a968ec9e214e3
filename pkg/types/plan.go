package types

import "fmt"

// Kind is what the executor creates at a PlannedLink destination.
type Kind int

const (
	KindHard Kind = iota
	KindSymbolic
	// KindDirectory is a directory-merge step of a recursive tree: the
	// destination directory is created if absent and kept if present.
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindHard:
		return "hard"
	case KindSymbolic:
		return "symbolic"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// KindFor maps a request mode to the link kind of a leaf entry.
func KindFor(m Mode) Kind {
	if m == ModeSymbolic {
		return KindSymbolic
	}
	return KindHard
}

// PlannedLink is one unit of work produced by the planner.
type PlannedLink struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Kind        Kind   `json:"-"`
	// Relative makes a symbolic link store a path relative to its parent.
	Relative bool `json:"relative,omitempty"`
}

// IsDirectory reports whether the entry is a directory-merge step.
func (p PlannedLink) IsDirectory() bool {
	return p.Kind == KindDirectory
}

func (p PlannedLink) String() string {
	if p.Kind == KindDirectory {
		return fmt.Sprintf("mkdir %s", p.Destination)
	}
	return fmt.Sprintf("%s %s -> %s", p.Kind, p.Destination, p.Source)
}

// Policy is the conflict policy applied to one PlannedLink.
type Policy struct {
	Force  bool
	Backup bool
	Suffix string
}
