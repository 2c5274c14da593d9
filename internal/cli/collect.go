package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rileyhilliard/fleetreport/internal/batch"
	"github.com/rileyhilliard/fleetreport/internal/collector"
	"github.com/rileyhilliard/fleetreport/internal/config"
	"github.com/rileyhilliard/fleetreport/internal/errors"
	"github.com/rileyhilliard/fleetreport/internal/logger"
	"github.com/rileyhilliard/fleetreport/internal/report"
	"github.com/rileyhilliard/fleetreport/internal/ui"
)

// dialTimeout bounds the TCP connect plus SSH handshake for one host.
// The per-host collection timeout from config covers the rest.
const dialTimeout = 10 * time.Second

// CollectOptions holds the flag overrides for a collection run. Zero
// values mean "use the config file's setting".
type CollectOptions struct {
	ConfigPath string
	Output     string
	Workers    int
	Timeout    time.Duration
}

// collectCommand runs one full collection pass: load config, collect from
// every server, write the report, print the summary.
func collectCommand(opts CollectOptions) error {
	log := logger.Default()

	path, err := config.Find(opts.ConfigPath)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'fleetreport init' to create fleetreport.yaml, or pass --config")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dial := collector.NewDialer(dialTimeout, cfg.StrictHostKeys)
	col := collector.New(dial, cfg.Collection.SampleGap, cfg.Collection.Retries, log)
	runner := batch.NewRunner(col.Collect, cfg.Collection.Timeout, cfg.Collection.Workers, log)

	profiles := cfg.Profiles()
	results := runner.Run(ctx, profiles)

	outPath := outputPath(cfg, opts.Output, time.Now())
	if err := report.Write(outPath, results); err != nil {
		return err
	}

	fmt.Print(ui.RenderSummary(buildSummary(results, outPath)))

	if failed := batch.Failed(results); failed > 0 {
		return errors.New(errors.ErrExec,
			fmt.Sprintf("%d of %d hosts failed", failed, len(results)),
			"See the Error column in "+outPath+" for details")
	}
	return nil
}

// applyOverrides folds command-line flags into the loaded config.
// Flags win over the file; unset flags leave the file's values alone.
func applyOverrides(cfg *config.Config, opts CollectOptions) {
	if opts.Output != "" {
		cfg.Report.Path = opts.Output
	}
	if opts.Workers > 0 {
		cfg.Collection.Workers = opts.Workers
	}
	if opts.Timeout > 0 {
		cfg.Collection.Timeout = opts.Timeout
	}
}

// outputPath picks the report destination: config path if set, otherwise
// a timestamped default filename in the current directory.
func outputPath(cfg *config.Config, flag string, now time.Time) string {
	if flag != "" {
		return flag
	}
	if cfg.Report.Path != "" {
		return cfg.Report.Path
	}
	return report.DefaultFilename(now)
}

// buildSummary converts batch results into the terminal summary model.
func buildSummary(results []batch.Result, reportPath string) *ui.RunSummary {
	s := &ui.RunSummary{ReportPath: reportPath}
	for _, res := range results {
		hs := ui.HostStatus{Host: res.Profile.Host}
		if res.Err != nil {
			hs.Message = failureMessage(res.Err)
		} else {
			hs.OK = true
			hs.Detail = hostDetail(res.Sample)
		}
		s.Hosts = append(s.Hosts, hs)
	}
	return s
}

// hostDetail builds the one-line metric digest shown next to a host.
func hostDetail(s *collector.Sample) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("cpu %.1f%%  mem %.1f%%  load %.2f",
		s.CPU.Percent, s.Memory.UsedPercent, s.CPU.LoadAvg[0])
}

// failureMessage flattens an error to a single line for the summary.
func failureMessage(err error) string {
	var fe *errors.Error
	if stderrors.As(err, &fe) {
		return fe.Message
	}
	line := err.Error()
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return line
}
