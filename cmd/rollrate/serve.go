// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/rollrate/clean"
	"github.com/katalvlaran/rollrate/estimator"
	"github.com/katalvlaran/rollrate/internal/logging"
	"github.com/katalvlaran/rollrate/internal/metrics"
	"github.com/katalvlaran/rollrate/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve <panel.csv|->",
	Short: "Fit a panel and serve its matrices over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		addr, _ := cmd.Flags().GetString("addr")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		col, err := metrics.New(reg)
		if err != nil {
			return err
		}

		var e *estimator.Estimator
		err = col.Time(func() error {
			var err error
			e, err = fitFile(cfg, logger, args[0], clean.Tee(logging.NewLogSink(logger), col))
			return err
		})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           server.NewHandler(e, server.WithLogger(logger), server.WithGatherer(reg)),
			ReadHeaderTimeout: 5 * time.Second,
		}

		return run(srv, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "listen address")
}

// run serves until SIGINT/SIGTERM, then drains for shutdownTimeout.
func run(srv *http.Server, logger *zap.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case sig := <-shutdown:
		logger.Info("shutting down", zap.Stringer("signal", sig))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown incomplete", zap.Error(err))
			return srv.Close()
		}
		return nil
	}
}
