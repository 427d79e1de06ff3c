package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/jobs"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/outwriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// statsCmd focused on platform statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute and show platform statistics",
	Long: `Count users, hardware and measurements across the primary store and the
document store. Legacy collections are folded into the consolidated view and
the result is kept as a single snapshot.

Subcommands:
  compute - Recompute and store the snapshot
  show    - Print the stored snapshot
  serve   - Recompute periodically and expose Prometheus metrics`,
}

// statsComputeCmd recomputes the snapshot once.
var statsComputeCmd = &cobra.Command{
	Use:     "compute",
	Short:   "Recompute and store the statistics snapshot",
	PreRunE: docsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		stat, err := app.svc.ComputeStatistics(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot compute statistics", err)
		}
		if err := outwriter.NewOutWriter().WriteStatistic(stat, cfg); err != nil {
			contract.LogFatal("Cannot write statistics", err)
		}
	},
}

// statsShowCmd prints the stored snapshot.
var statsShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the stored statistics snapshot",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		stat, err := app.svc.Statistics(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot load statistics", err)
		}
		if err := outwriter.NewOutWriter().WriteStatistic(stat, cfg); err != nil {
			contract.LogFatal("Cannot write statistics", err)
		}
	},
}

// statsServeCmd refreshes the snapshot on a schedule until interrupted.
var statsServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Refresh statistics periodically and serve metrics",
	Long: `Recompute the statistics snapshot right away and then every --stats-interval.
When --metrics-addr is set, Prometheus metrics are served on /metrics.
Stops on SIGINT or SIGTERM.

Examples:
  phasma stats serve --stats-interval 30m --metrics-addr :9090`,
	PreRunE: docsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := serveStatistics(rootCtx); err != nil {
			contract.LogFatal("Statistics service stopped", err)
		}
	},
}

func serveStatistics(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			app.logger.Info("Serving metrics", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		n := jobs.Every(ctx, cfg.StatsInterval, app.pool, "statistics", func(ctx context.Context) error {
			_, err := app.svc.ComputeStatistics(ctx)
			return err
		})
		app.logger.Info("Statistics schedule stopped", zap.Int("runs", n))
		return nil
	})
	return g.Wait()
}
