// Package cli wires the cobra command tree: the root command runs a
// collection pass over every configured server and writes the xlsx report.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/fleetreport/internal/errors"
)

// Root command flags
var (
	configFlag  string
	outputFlag  string
	workersFlag int
	timeoutFlag time.Duration
)

// rootCmd collects metrics from all configured servers and writes the report.
var rootCmd = &cobra.Command{
	Use:   "fleetreport",
	Short: "Collect host metrics over SSH into an xlsx report",
	Long: `fleetreport connects to each server listed in fleetreport.yaml, samples
CPU, memory, network, and disk usage over SSH, and writes the results to
an xlsx spreadsheet - one row per host.

Hosts that can't be reached still get a row: the report always accounts
for every configured server.

Examples:
  fleetreport
  fleetreport --config ./staging.yaml
  fleetreport --output /tmp/fleet.xlsx --workers 4`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return collectCommand(CollectOptions{
			ConfigPath: configFlag,
			Output:     outputFlag,
			Workers:    workersFlag,
			Timeout:    timeoutFlag,
		})
	},
}

// collectCmd is an explicit alias for the bare invocation, so scripts can
// spell out what they run.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect metrics and write the report (same as bare invocation)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")

	for _, cmd := range []*cobra.Command{rootCmd, collectCmd} {
		cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "report destination (default: timestamped file in current directory)")
		cmd.Flags().IntVar(&workersFlag, "workers", 0, "hosts collected concurrently (default from config)")
		cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "per-host collection timeout (default from config)")
	}

	rootCmd.AddCommand(collectCmd)
}

// Execute runs the root command and exits non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var fe *errors.Error
		if stderrors.As(err, &fe) {
			fmt.Fprint(os.Stderr, fe.Error())
		} else {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}
