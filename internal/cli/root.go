// Package cli is the flnk command line: flag parsing, configuration and
// logging setup, and the wiring of the engine (or the interactive
// reviewer) to a report renderer.
package cli

import (
	"fmt"

	"github.com/arthur-debert/flnk/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	o := &options{}

	rootCmd := &cobra.Command{
		Use:     "flnk [OPTION]... TARGET... [LINK_NAME|DIRECTORY]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&o.symbolic, "symbolic", "s", false, MsgFlagSymbolic)
	flags.BoolVarP(&o.force, "force", "f", false, MsgFlagForce)
	flags.BoolVarP(&o.backup, "backup", "b", false, MsgFlagBackup)
	flags.StringVarP(&o.suffix, "suffix", "S", "", MsgFlagSuffix)
	flags.BoolVarP(&o.relative, "relative", "r", false, MsgFlagRelative)
	flags.BoolVarP(&o.verbose, "verbose", "v", false, MsgFlagVerbose)
	flags.StringVarP(&o.targetDir, "target-directory", "t", "", MsgFlagTargetDir)
	flags.BoolVarP(&o.noTargetDir, "no-target-directory", "T", false, MsgFlagNoTargetDir)
	flags.BoolVarP(&o.filesOnly, "files-only", "F", false, MsgFlagFilesOnly)
	flags.BoolVarP(&o.interactive, "interactive", "i", false, MsgFlagInteractive)
	flags.BoolVarP(&o.interactive, "ui", "u", false, MsgFlagInteractive)
	flags.IntVarP(&o.jobs, "jobs", "j", 1, MsgFlagJobs)
	flags.StringVar(&o.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&o.configFile, "config", "", MsgFlagConfig)
	flags.BoolVar(&o.printConfig, "print-config", false, MsgFlagPrintConfig)
	flags.CountVarP(&o.logLevel, "log-level", "L", MsgFlagLogLevel)
	_ = flags.MarkHidden("ui")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetVersionTemplate(fmt.Sprintf(MsgVersionFormat, version.Version, version.Commit, version.Date))
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n%s", err, MsgTryHelp)
	})

	return rootCmd
}
