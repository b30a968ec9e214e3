// Package types defines the values that flow through a flnk run: the
// LinkRequest built from validated input, the PlannedLink units produced
// by the planner, the LinkOutcome of executing each unit, and the RunReport
// handed back to the CLI or the interactive reviewer.
package types
