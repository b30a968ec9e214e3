package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/flnk/pkg/config"
	"github.com/arthur-debert/flnk/pkg/engine"
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/filesystem"
	"github.com/arthur-debert/flnk/pkg/logging"
	"github.com/arthur-debert/flnk/pkg/tui"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/arthur-debert/flnk/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// fsys is the filesystem every run goes through.
var fsys = filesystem.NewOS()

func run(cmd *cobra.Command, o *options, args []string) error {
	cfg, err := config.Load(config.Options{
		File:  o.configFile,
		Flags: o.configFlags(cmd.Flags()),
	})
	if err != nil {
		return err
	}

	logging.SetupLogger(cfg.Log.Level, cfg.Log.File)
	logger := logging.GetLogger("cli")
	logger.Debug().Strs("args", args).Msg("Command started")

	if o.printConfig {
		data, err := cfg.TOML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	reporter, err := newReporter(cmd, cfg.Output.Format, o.verbose)
	if err != nil {
		return err
	}

	req, err := o.request(args, cfg)
	if err != nil {
		return reported(reporter, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(fsys, engine.WithWorkers(cfg.Link.Workers))

	var report *types.RunReport
	if o.interactive {
		report, err = review(ctx, cmd, eng, req, reporter)
	} else {
		report, err = eng.Run(ctx, req, func(e types.Entry) {
			if err := reporter.Entry(e); err != nil {
				logger.Warn().Err(err).Int("index", e.Index).Msg("Failed to render entry")
			}
		})
	}
	if err != nil {
		return reported(reporter, err)
	}

	if err := reporter.Finish(report); err != nil {
		return err
	}
	if report.HasFailures() {
		return &ExitError{
			Code:     1,
			Err:      errors.Newf(errors.ErrLinkFailed, "%d of %d links failed", report.Counts.Failed, report.Planned),
			Reported: true,
		}
	}
	return nil
}

// review runs the interactive reviewer and replays its entries to the
// reporter, so the report on stdout matches a batch run.
func review(ctx context.Context, cmd *cobra.Command, eng *engine.Engine, req types.LinkRequest, reporter *ui.Reporter) (*types.RunReport, error) {
	draft, err := eng.Planner().Draft(req)
	if err != nil {
		return nil, err
	}
	report, err := tui.Run(ctx, eng.Executor(), draft, req.Policy(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	if err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		if err := reporter.Entry(e); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// newReporter renders the report on stdout. Errors go to stderr, except
// in JSON mode where they are part of the machine-readable output.
func newReporter(cmd *cobra.Command, name string, verbose bool) (*ui.Reporter, error) {
	format, err := ui.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	out, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	reporter := ui.NewReporter(out, verbose)
	if format == ui.FormatJSON {
		return reporter, nil
	}

	errOut, err := ui.NewRenderer(format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return reporter.WithErrorRenderer(errOut), nil
}

// reported renders err and marks it as already shown.
func reported(reporter *ui.Reporter, err error) error {
	if rerr := reporter.Error(err); rerr != nil {
		return err
	}
	return &ExitError{Code: 1, Err: err, Reported: true}
}
