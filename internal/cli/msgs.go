package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort = "Replicate files and directory trees as hard or symbolic links"

	// Flag descriptions
	MsgFlagSymbolic    = "make symbolic links instead of hard links"
	MsgFlagForce       = "remove existing destination files"
	MsgFlagBackup      = "make a backup of each existing destination file"
	MsgFlagSuffix      = "override the usual backup suffix"
	MsgFlagRelative    = "create symbolic links relative to link location"
	MsgFlagVerbose     = "print name of each linked file"
	MsgFlagTargetDir   = "specify the DIRECTORY in which to create the links"
	MsgFlagNoTargetDir = "treat LINK_NAME as a normal file always"
	MsgFlagFilesOnly   = "with --symbolic, mirror directories and link only their files"
	MsgFlagInteractive = "review conflicting destinations before linking"
	MsgFlagJobs        = "number of links created concurrently"
	MsgFlagFormat      = "report format: auto, terminal, text or json"
	MsgFlagConfig      = "read configuration from FILE (.toml, .yaml)"
	MsgFlagPrintConfig = "print the effective configuration and exit"
	MsgFlagLogLevel    = "increase log verbosity (-L INFO, -LL DEBUG, -LLL TRACE)"

	MsgVersionFormat = "flnk version %s (commit %s, built %s)\n"

	// Error messages
	MsgErrTargetDirConflict = "cannot combine --target-directory (-t) and --no-target-directory (-T)"
	MsgErrMissingOperand    = "missing file operand"
	MsgErrMissingDest       = "missing destination file operand after '%s'"
	MsgTryHelp              = "Try 'flnk --help' for more information."
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
