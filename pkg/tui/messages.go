package tui

import "github.com/arthur-debert/flnk/pkg/types"

type materializedMsg struct {
	err error
}

type entryMsg struct {
	entry types.Entry
}
