package cli

import (
	"github.com/arthur-debert/flnk/pkg/config"
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/spf13/pflag"
)

// options holds the parsed command-line flags.
type options struct {
	symbolic    bool
	force       bool
	backup      bool
	relative    bool
	verbose     bool
	noTargetDir bool
	filesOnly   bool
	interactive bool
	printConfig bool
	suffix      string
	targetDir   string
	format      string
	configFile  string
	jobs        int
	logLevel    int
}

// configFlags returns the flags that override configuration keys, only
// for the flags the user actually set.
func (o *options) configFlags(flags *pflag.FlagSet) map[string]interface{} {
	values := map[string]interface{}{
		"suffix":     o.suffix,
		"jobs":       o.jobs,
		"files-only": o.filesOnly,
		"format":     o.format,
		"log-level":  o.logLevel,
	}
	keys := map[string]string{
		"suffix":     "link.suffix",
		"jobs":       "link.workers",
		"files-only": "link.files_only",
		"format":     "output.format",
		"log-level":  "log.level",
	}

	out := map[string]interface{}{}
	for name, key := range keys {
		if flags.Changed(name) {
			out[key] = values[name]
		}
	}
	return out
}

// request turns the positional operands into a LinkRequest:
//
//	TARGET LINK_NAME      link TARGET to LINK_NAME (or into it, if a directory)
//	TARGET                link TARGET into the current directory
//	TARGET... DIRECTORY   link every TARGET into DIRECTORY
//	-t DIRECTORY TARGET...
func (o *options) request(args []string, cfg *config.Config) (types.LinkRequest, error) {
	req := types.LinkRequest{
		Relative:     o.relative,
		Force:        o.force,
		Backup:       o.backup,
		BackupSuffix: cfg.Link.Suffix,
		Verbose:      o.verbose,
	}
	if o.symbolic {
		req.Mode = types.ModeSymbolic
		req.FilesOnly = cfg.Link.FilesOnly
	} else if o.filesOnly {
		req.FilesOnly = true
	}

	if o.targetDir != "" && o.noTargetDir {
		return req, errors.New(errors.ErrInvalidInput, MsgErrTargetDirConflict)
	}
	if len(args) == 0 {
		return req, errors.New(errors.ErrInvalidInput, MsgErrMissingOperand)
	}

	switch {
	case o.targetDir != "":
		req.Form = types.FormTargetDirectory
		req.Sources = args
		req.Destination = o.targetDir
	case len(args) == 1:
		if o.noTargetDir {
			return req, errors.Newf(errors.ErrInvalidInput, MsgErrMissingDest, args[0])
		}
		req.Sources = args
		req.Destination = "."
	default:
		if o.noTargetDir {
			req.Form = types.FormLinkName
		}
		req.Sources = args[:len(args)-1]
		req.Destination = args[len(args)-1]
	}
	return req, req.Validate()
}
