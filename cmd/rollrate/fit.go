// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/rollrate/clean"
	"github.com/katalvlaran/rollrate/estimator"
	"github.com/katalvlaran/rollrate/internal/config"
	"github.com/katalvlaran/rollrate/internal/logging"
	"github.com/katalvlaran/rollrate/render"
	"github.com/katalvlaran/rollrate/snapshot"
)

var fitCmd = &cobra.Command{
	Use:   "fit <panel.csv|->",
	Short: "Fit transition matrices and print them as heatmaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		modes, err := parseModes(cmd)
		if err != nil {
			return err
		}

		e, err := fitFile(cfg, logger, args[0], logging.NewLogSink(logger))
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			snap, err := e.Snapshot()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err = enc.Encode(snap); err != nil {
				return err
			}
		} else {
			grids, err := e.Grids(modes...)
			if err != nil {
				return err
			}
			if horizon, _ := cmd.Flags().GetInt("horizon"); horizon > 0 {
				g, err := projection(e, horizon)
				if err != nil {
					return err
				}
				grids = append(grids, g)
			}
			hm := render.New(render.WithThreshold(cfg.Render.Threshold), render.WithColor(cfg.Render.Color))
			if err = hm.RenderAll(cmd.OutOrStdout(), grids); err != nil {
				return err
			}
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			return saveSnapshot(cmd.Context(), cfg, logger, e)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
	fitCmd.Flags().StringSlice("modes", []string{"global"}, "modalities to print: global, group, stage")
	fitCmd.Flags().Bool("json", false, "print the fit as a JSON snapshot instead of heatmaps")
	fitCmd.Flags().Bool("save", false, "store the snapshot in Redis (redis.addr)")
	fitCmd.Flags().Int("horizon", 0, "also print the global matrix projected this many periods ahead")
}

// projection renders the global matrix raised to horizon.
func projection(e *estimator.Estimator, horizon int) (render.Grid, error) {
	p, err := e.Project(estimator.Global(), horizon)
	if err != nil {
		return render.Grid{}, err
	}
	labels, err := e.Labels(estimator.Global())
	if err != nil {
		return render.Grid{}, err
	}

	return render.Grid{
		Title:     fmt.Sprintf("Transition Matrix – global, %d periods ahead (%%)", horizon),
		Matrix:    p,
		RowLabels: render.Labels(labels),
		ColLabels: render.Labels(labels),
	}, nil
}

func parseModes(cmd *cobra.Command) ([]estimator.Mode, error) {
	raw, _ := cmd.Flags().GetStringSlice("modes")
	modes := make([]estimator.Mode, 0, len(raw))
	for _, s := range raw {
		m, err := estimator.ParseMode(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}

	return modes, nil
}

// fitFile reads path and fits a new estimator built from cfg. Events go to sink.
func fitFile(cfg *config.Config, logger *zap.Logger, path string, sink clean.Sink) (*estimator.Estimator, error) {
	frame, err := readFrame(path)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.EstimatorOptions()
	if err != nil {
		return nil, err
	}
	e, err := estimator.New(cfg.Buckets, append(opts, estimator.WithSink(sink))...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err = e.FitFrame(frame, cfg.PanelColumns()); err != nil {
		return nil, fmt.Errorf("fit %s: %w", path, err)
	}
	logger.Info("fit complete",
		zap.String("fit_id", e.FitID().String()),
		zap.String("strategy", e.Strategy().String()),
		zap.Int("records", len(frame.Records)),
		zap.Strings("groups", e.Groups()),
		zap.Ints("stages", e.Stages()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return e, nil
}

func saveSnapshot(ctx context.Context, cfg *config.Config, logger *zap.Logger, e *estimator.Estimator) error {
	if cfg.Redis.Addr == "" {
		return errors.New("--save requires redis.addr")
	}
	store, err := snapshot.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		snapshot.WithPrefix(cfg.Redis.Prefix), snapshot.WithTTL(cfg.Redis.TTL))
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := e.Snapshot()
	if err != nil {
		return err
	}
	if err = store.Save(ctx, snap); err != nil {
		return err
	}
	logger.Info("snapshot saved", zap.String("fit_id", snap.ID.String()), zap.String("redis", cfg.Redis.Addr))
	fmt.Fprintf(os.Stderr, "saved snapshot %s\n", snap.ID)

	return nil
}
