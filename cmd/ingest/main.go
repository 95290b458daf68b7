package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gpx_tracker/internal/app"
	"gpx_tracker/internal/config"
	"gpx_tracker/internal/ingest"
	"gpx_tracker/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var uploadsDir string

	cmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Import new GPX files from the uploads directory into the database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if uploadsDir != "" {
				cfg.UploadsDir = uploadsDir
			}

			rotator := logger.Setup(cfg.LogFile, cfg.LogLevel)
			defer rotator.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Bootstrap(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, runErr := a.Pipeline.Run(ctx)
			printReport(cmd, report)
			if runErr != nil {
				logrus.WithError(runErr).Error("ingest failed")
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", runErr)
			}
			return runErr
		},
	}
	cmd.SetContext(context.Background())
	cmd.Flags().StringVar(&uploadsDir, "uploads", "", "uploads directory (overrides UPLOADS_DIR)")
	return cmd
}

func printReport(cmd *cobra.Command, report *ingest.Report) {
	if report == nil {
		return
	}
	out := cmd.OutOrStdout()
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("%-8s %s", o.Status, o.Document)
		if o.Status == ingest.StatusImported {
			line += fmt.Sprintf(" (%d routes, %d waypoints)", o.Routes, o.Waypoints)
		}
		if o.Err != nil {
			line += ": " + o.Err.Error()
		}
		fmt.Fprintln(out, line)
	}
	t := report.Totals()
	fmt.Fprintf(out, "imported=%d skipped=%d invalid=%d failed=%d\n",
		t[ingest.StatusImported], t[ingest.StatusSkipped], t[ingest.StatusInvalid], t[ingest.StatusFailed])
}
