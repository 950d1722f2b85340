package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
	"github.com/AltairaLabs/speechkit/runtime/telemetry"
	"github.com/AltairaLabs/speechkit/runtime/version"
	"github.com/AltairaLabs/speechkit/server/toolserver"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the speech tools over HTTP",
	Long: `Exposes the tool registry to agent frameworks:

  GET  /tools          list tool descriptors
  POST /tools/{name}   call a tool
  GET  /metrics        Prometheus metrics
  GET  /healthz        liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	_ = settingsViper.BindPFlag(keyServerAddr, serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	spec := settings.Spec

	shutdownTracing, err := telemetry.Setup(ctx, spec.Telemetry.OTLPEndpoint, spec.Telemetry.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}
	if a.files != nil && spec.Artifacts.Local.Retention != "" {
		go a.files.RunSweeper(ctx, spec.Artifacts.Local.SweepInterval)
	}

	registry, err := a.registry()
	if err != nil {
		return err
	}
	exporter := prometheus.NewExporter(spec.Server.Addr)
	srv := toolserver.New(registry, toolserver.WithMetricsHandler(spec.Server.MetricsPath, exporter.Handler()))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Tool server listening",
			append([]any{"addr", spec.Server.Addr, "tools", registry.List()}, version.GetBuildInfo()...)...)
		errCh <- srv.ListenAndServe(spec.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down tool server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
