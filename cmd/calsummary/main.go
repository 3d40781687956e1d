package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/martinaparikova/calendar-asistant/internal/config"
	"github.com/martinaparikova/calendar-asistant/internal/ics"
	applog "github.com/martinaparikova/calendar-asistant/internal/log"
	"github.com/martinaparikova/calendar-asistant/internal/notify"
	"github.com/martinaparikova/calendar-asistant/internal/render"
	"github.com/martinaparikova/calendar-asistant/internal/summary"
)

var (
	flagMode   string
	flagConfig string
	flagDryRun bool
	flagDebug  bool
)

func main() {
	root := &cobra.Command{
		Use:          "calsummary",
		Short:        "Aggregate ICS calendar feeds into a daily or weekly report",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				applog.SetDebug()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runOnce(cmd.Context(), cfg, flagMode)
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&flagMode, "mode", "", "daily (tomorrow) or weekly (Mon-Sun)")
	root.Flags().BoolVar(&flagDryRun, "dry-run", false, "write HTML to a file instead of delivering")
	_ = root.MarkFlagRequired("mode")

	root.AddCommand(serveCommand())

	ctx, cancel := signalContext()
	defer cancel()

	defer applog.Sync()
	if err := root.ExecuteContext(ctx); err != nil {
		applog.Error("run failed", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", flagConfig, err)
	}
	applog.Info("config loaded",
		"path", flagConfig,
		"time_zone", cfg.Timezone,
		"calendar_count", len(cfg.Calendars),
	)
	return cfg, nil
}

// runOnce executes a single report run: build, render, deliver (or dump
// to a file for dry runs).
func runOnce(ctx context.Context, cfg *config.Config, mode string) error {
	pipeline := summary.New(ics.NewClient(), cfg)
	report, err := pipeline.Run(ctx, mode)
	if err != nil {
		return err
	}

	html, err := render.HTML(report)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if flagDryRun || cfg.DryRun {
		out := fmt.Sprintf("output_%s.html", mode)
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		applog.Info("dry run: report written", "path", out)
		return nil
	}

	notify.NewDispatcher(cfg).Send(ctx, report.Title, html)
	applog.Info("notifications dispatched", "title", report.Title)
	return nil
}

// serveCommand runs as a daemon and triggers report runs on the cron
// schedules from config.
func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run daily/weekly reports on the configured cron schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Schedule.Daily == "" && cfg.Schedule.Weekly == "" {
				return errors.New("serve requires schedule.daily and/or schedule.weekly in config")
			}

			ctx := cmd.Context()
			c := cron.New(cron.WithLocation(cfg.Location()))

			addJob := func(spec, mode string) error {
				if spec == "" {
					return nil
				}
				_, err := c.AddFunc(spec, func() {
					if err := runOnce(ctx, cfg, mode); err != nil {
						applog.Error("scheduled run failed", err, "mode", mode)
					}
				})
				if err != nil {
					return fmt.Errorf("schedule.%s %q: %w", mode, spec, err)
				}
				return nil
			}

			if err := addJob(cfg.Schedule.Daily, summary.ModeDaily); err != nil {
				return err
			}
			if err := addJob(cfg.Schedule.Weekly, summary.ModeWeekly); err != nil {
				return err
			}

			c.Start()
			applog.Info("scheduler started",
				"daily", cfg.Schedule.Daily,
				"weekly", cfg.Schedule.Weekly,
			)

			<-ctx.Done()
			<-c.Stop().Done()
			applog.Info("scheduler stopped")
			return nil
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		applog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	return ctx, cancel
}
