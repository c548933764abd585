package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "bodymetrics/internal/adapter/http"
	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
	"bodymetrics/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) (err error) {
	cfg, closeLogs, err := opts.loadConfig()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeLogs()) }()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	prom := metrics.NewManager("bodymetrics", "api", prometheus.DefaultRegisterer)
	metricSvc := app.NewMetricService(repo, domain.DefaultCatalog(), app.WithRecorder(prom))
	chartsSvc := app.NewChartsService(metricSvc, nil)

	authSvc := app.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash)
	if !authSvc.Enabled() {
		log.Warnln("admin password hash not set, write endpoints are open. use BODYMETRICS_ADMIN_PASSWORD_HASH")
	}

	apiServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(metricSvc, chartsSvc, authSvc, prom).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	servers := []*http.Server{apiServer}
	if cfg.MetricsAddr != "" {
		metricsRouter := http.NewServeMux()
		metricsRouter.Handle("/metrics", promhttp.Handler())
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsRouter,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Warnln("shutdown signal received")
	case serveErr = <-errCh:
		log.Errorf("server failed: %s", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		serveErr = multierr.Append(serveErr, srv.Shutdown(shutdownCtx))
	}
	log.Infoln("server stopped")
	return serveErr
}
