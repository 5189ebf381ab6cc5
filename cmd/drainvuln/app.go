// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/config"
	"github.com/katalvlaran/drainvuln/metrics"
	"github.com/katalvlaran/drainvuln/report"
	"github.com/katalvlaran/drainvuln/storage"
)

// app carries what every subcommand needs for one invocation.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Registry
	out     io.Writer
}

// newApp loads configuration and builds the logger.
func newApp(out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: logger, metrics: metrics.NewRegistry(), out: out}, nil
}

// newLogger builds a production (json) or development (console) zap logger.
func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var zc zap.Config
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}

// close flushes the logger.
func (a *app) close() { _ = a.log.Sync() }

// loadNetwork reads the input network from SQLite when configured, else from CSV.
func (a *app) loadNetwork(ctx context.Context) (storage.Network, error) {
	in := a.cfg.Input
	if in.SQLite != "" {
		store, err := storage.OpenSQLite(ctx, in.SQLite)
		if err != nil {
			return storage.Network{}, err
		}
		defer store.Close()
		a.log.Debug("loading network", zap.String("sqlite", in.SQLite))
		return store.LoadNetwork(ctx)
	}
	a.log.Debug("loading network", zap.String("nodes", in.Nodes), zap.String("edges", in.Edges))

	return storage.ReadCSV(ctx, in.Nodes, in.Edges)
}

// analyze runs one full pass: load, score, render and persist.
func (a *app) analyze(ctx context.Context) (*analysis.Result, error) {
	net, err := a.loadNetwork(ctx)
	if err != nil {
		a.metrics.ObserveFailure(analysis.StageOf(err))
		if merr := a.writeMetrics(); merr != nil {
			a.log.Warn("metrics textfile not written", zap.Error(merr))
		}
		return nil, err
	}
	opts, err := a.cfg.AnalysisOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, analysis.WithLogger(a.log), analysis.WithRecorder(a.metrics))

	res, runErr := analysis.Run(net.Nodes, net.Edges, opts...)
	// Failures are counted too, so the textfile is written either way.
	if err = a.writeMetrics(); err != nil {
		a.log.Warn("metrics textfile not written", zap.Error(err))
	}
	if runErr != nil {
		return nil, runErr
	}

	if err = report.Render(a.out, res, a.cfg.Report.Top); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err = a.writeOutputs(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

// writeOutputs sends res to every configured sink.
func (a *app) writeOutputs(ctx context.Context, res *analysis.Result) error {
	out := a.cfg.Output
	if out.CSV != "" {
		if err := writeFile(out.CSV, func(w io.Writer) error { return storage.WriteCSV(w, res.Table) }); err != nil {
			return err
		}
		a.log.Info("results written", zap.String("csv", out.CSV))
	}
	if out.JSON != "" {
		if err := writeFile(out.JSON, func(w io.Writer) error { return storage.WriteJSON(w, res) }); err != nil {
			return err
		}
		a.log.Info("results written", zap.String("json", out.JSON))
	}
	if out.SQLite != "" {
		store, err := storage.OpenSQLite(ctx, out.SQLite)
		if err != nil {
			return err
		}
		defer store.Close()
		info, err := store.SaveRun(ctx, res)
		if err != nil {
			return err
		}
		a.log.Info("run stored", zap.String("sqlite", out.SQLite), zap.String("run", info.ID))
	}

	return nil
}

func (a *app) writeMetrics() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.Metrics.Textfile), 0o755); err != nil {
		return err
	}

	return a.metrics.WriteTextfile(a.cfg.Metrics.Textfile)
}

// writeFile creates path (and its directory) and hands it to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return write(f)
}

// bindFlags binds command flags to config keys; flags override file and env.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// elapsed formats a duration for log lines.
func elapsed(start time.Time) zap.Field { return zap.Duration("elapsed", time.Since(start)) }
