package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/meter/pkg/cli"
	"mercator-hq/meter/pkg/dispatch"
	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/ledger/report"
	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/processing/costs"
	"mercator-hq/meter/pkg/providerfactory"
	"mercator-hq/meter/pkg/server"
	"mercator-hq/meter/pkg/telemetry/health"
	"mercator-hq/meter/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the meter HTTP API",
	Long: `Start the meter HTTP API. Every request is recorded in one shared ledger.

Endpoints:
  POST /v1/query      send a prompt
  GET  /v1/usage      ledger summary (?session_id=)
  GET  /v1/records    ledger records (?session_id=&provider=&model=&format=json|csv)
  GET  /v1/sessions   known sessions
  GET  /health        liveness
  GET  /ready         readiness
  GET  /metrics       Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM and writes the ledger to
ledger.export.path when it is set.

Examples:
  # Start with meter.yaml
  meter serve

  # Override listen address
  meter serve --listen 0.0.0.0:8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	table, err := pricing.Load(cfg.Pricing.File)
	if err != nil {
		return fmt.Errorf("failed to load pricing: %w", err)
	}
	logger.Info("pricing table loaded", "entries", table.Len(), "file", cfg.Pricing.File)

	settings := cfg.AllProviderSettings()
	manager := providerfactory.NewManager(settings)
	defer manager.Close()

	tracker := ledger.NewTracker()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	dispatcher := dispatch.New(
		dispatch.ConfigFrom(cfg),
		manager,
		costs.NewCalculator(table),
		tracker,
		dispatch.WithMetrics(collector),
		dispatch.WithLogger(logger.Slog()),
	)

	checker := health.New(health.DefaultCheckTimeout)
	checker.Register("pricing", health.PricingCheck(table))
	checker.Register("credentials", health.CredentialsCheck(settings))

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	scheduler := report.NewScheduler(tracker, cfg.Ledger.SummarySchedule, logger.Slog())
	if err := scheduler.Start(ctx); err != nil {
		logger.Warn("failed to start ledger summary scheduler", "error", err)
	} else if scheduler.IsRunning() {
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			logger.Debug("ledger summary scheduler started", "next_run", next)
		}
	}

	srv := server.NewServer(server.Options{
		Config:     cfg.Server,
		Export:     cfg.Ledger.Export,
		Metrics:    cfg.Telemetry.Metrics,
		Dispatcher: dispatcher,
		Collector:  collector,
		Checker:    checker,
		Version:    health.NewVersionInfo(Version, GitCommit, BuildDate),
	})

	logger.Info("server configured",
		"address", cfg.Server.ListenAddress,
		"session", tracker.SessionID(),
		"default_provider", cfg.Request.DefaultProvider,
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", tracker, err)
	}

	summary := tracker.Summary("")
	logger.Info("meter server stopped",
		"requests", summary.Requests,
		"total_cost", summary.TotalCost.StringFixed(costs.DisplayPlaces),
	)
	return nil
}
